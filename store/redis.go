package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/bookwise/bookrec/core"
)

// RedisStore 是 Redis 实现的数据源，生产环境常用。
//
// 数据布局（{p} 为 KeyPrefix）：
//   - {p}books:order  LIST   书目 ID，插入序（内容矩阵行序的依据）
//   - {p}books        HASH   bookID -> JSON(core.Book)
//   - {p}ratings:{u}  LIST   JSON(core.Rating)
//   - {p}history:{u}  SET    bookID
//   - {p}recs:{u}     LIST   JSON(core.Recommendation)
type RedisStore struct {
	client    *redis.Client
	KeyPrefix string
}

var (
	_ core.CatalogSource      = (*RedisStore)(nil)
	_ core.RatingSource       = (*RedisStore)(nil)
	_ core.RecommendationSink = (*RedisStore)(nil)
)

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, KeyPrefix: "bookrec:"}, nil
}

// NewRedisStoreFromClient 复用已有连接（测试/连接池托管场景）。
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, KeyPrefix: keyPrefix}
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Close() error { return r.client.Close() }

func (r *RedisStore) booksOrderKey() string         { return r.KeyPrefix + "books:order" }
func (r *RedisStore) booksKey() string              { return r.KeyPrefix + "books" }
func (r *RedisStore) ratingsKey(user string) string { return r.KeyPrefix + "ratings:" + user }
func (r *RedisStore) historyKey(user string) string { return r.KeyPrefix + "history:" + user }
func (r *RedisStore) recsKey(user string) string    { return r.KeyPrefix + "recs:" + user }

// AddBook 写入一本书：记录 JSON 存 hash，ID 追加到顺序 list。
func (r *RedisStore) AddBook(ctx context.Context, book *core.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}

	exists, err := r.client.HExists(ctx, r.booksKey(), book.ID).Result()
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.booksKey(), book.ID, data)
	if !exists {
		pipe.RPush(ctx, r.booksOrderKey(), book.ID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// AddRating 追加一条评分记录。
func (r *RedisStore) AddRating(ctx context.Context, rating core.Rating) error {
	data, err := json.Marshal(rating)
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, r.ratingsKey(rating.UserID), data).Err()
}

// AddReadingHistory 记录用户读过某本书。
func (r *RedisStore) AddReadingHistory(ctx context.Context, userID, bookID string) error {
	return r.client.SAdd(ctx, r.historyKey(userID), bookID).Err()
}

func (r *RedisStore) ListBooksWithDescription(ctx context.Context) ([]*core.Book, error) {
	ids, err := r.client.LRange(ctx, r.booksOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vals, err := r.client.HMGet(ctx, r.booksKey(), ids...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*core.Book, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var book core.Book
		if err := json.Unmarshal([]byte(s), &book); err != nil {
			return nil, err
		}
		if book.HasDescription() {
			out = append(out, &book)
		}
	}
	return out, nil
}

func (r *RedisStore) RatingsForUserAtOrAbove(ctx context.Context, userID string, minRating float64) ([]core.PreferenceRow, error) {
	ratings, err := r.userRatings(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []core.PreferenceRow
	for _, rating := range ratings {
		if rating.Value < minRating {
			continue
		}
		data, err := r.client.HGet(ctx, r.booksKey(), rating.BookID).Result()
		if err == redis.Nil {
			// join 语义：书目不存在的评分不产生偏好证据
			continue
		}
		if err != nil {
			return nil, err
		}
		var book core.Book
		if err := json.Unmarshal([]byte(data), &book); err != nil {
			return nil, err
		}
		rows = append(rows, core.PreferenceRow{
			BookID: book.ID,
			Genre:  book.Genre,
			Author: book.Author,
			Tags:   book.Tags,
			Rating: rating.Value,
		})
	}
	return rows, nil
}

func (r *RedisStore) AllReadOrReviewedBookIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	ratings, err := r.userRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rating := range ratings {
		ids[rating.BookID] = struct{}{}
	}

	history, err := r.client.SMembers(ctx, r.historyKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	for _, id := range history {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// ReplaceRecommendations 用 MULTI/EXEC 原子替换用户的推荐缓存：
// DEL 旧结果 + RPUSH 新结果，一次性提交，不是追加。
func (r *RedisStore) ReplaceRecommendations(ctx context.Context, userID string, recs []*core.Recommendation) error {
	payloads := make([]interface{}, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		payloads = append(payloads, data)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.recsKey(userID))
	if len(payloads) > 0 {
		pipe.RPush(ctx, r.recsKey(userID), payloads...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// CachedRecommendations 读取用户的推荐缓存；没有时返回 ErrNotFound。
func (r *RedisStore) CachedRecommendations(ctx context.Context, userID string) ([]*core.Recommendation, error) {
	vals, err := r.client.LRange(ctx, r.recsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}

	recs := make([]*core.Recommendation, 0, len(vals))
	for _, v := range vals {
		var rec core.Recommendation
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

func (r *RedisStore) userRatings(ctx context.Context, userID string) ([]core.Rating, error) {
	vals, err := r.client.LRange(ctx, r.ratingsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ratings := make([]core.Rating, 0, len(vals))
	for _, v := range vals {
		var rating core.Rating
		if err := json.Unmarshal([]byte(v), &rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}
