package store

import (
	"context"
	"sync"

	"github.com/bookwise/bookrec/core"
)

// MemoryStore 是内存实现的数据源，用于测试/开发/原型。
// 同时实现 CatalogSource、RatingSource、RecommendationSink；
// 进程重启后数据丢失。
//
// 书目保持插入顺序，ListBooksWithDescription 的返回顺序在多次
// 调用间稳定（内容矩阵的行序依赖这一点）。
type MemoryStore struct {
	mu      sync.RWMutex
	books   []*core.Book
	byID    map[string]*core.Book
	ratings map[string][]core.Rating          // userID -> ratings
	history map[string]map[string]struct{}    // userID -> bookID set
	recs    map[string][]*core.Recommendation // userID -> cached recommendations
}

// 接口断言
var (
	_ core.CatalogSource      = (*MemoryStore)(nil)
	_ core.RatingSource       = (*MemoryStore)(nil)
	_ core.RecommendationSink = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*core.Book),
		ratings: make(map[string][]core.Rating),
		history: make(map[string]map[string]struct{}),
		recs:    make(map[string][]*core.Recommendation),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

// AddBook 添加一本书；ID 重复时覆盖记录但保留原插入位置。
func (m *MemoryStore) AddBook(book *core.Book) {
	if book == nil || book.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byID[book.ID]; ok {
		for i, b := range m.books {
			if b == old {
				m.books[i] = book
				break
			}
		}
	} else {
		m.books = append(m.books, book)
	}
	m.byID[book.ID] = book
}

// AddBooks 批量添加书目。
func (m *MemoryStore) AddBooks(books ...*core.Book) {
	for _, b := range books {
		m.AddBook(b)
	}
}

// AddRating 追加一条评分记录（同一 (user, book) 多条时不去重，
// 与领域约定一致：唯一性由上游保证，这里不强制）。
func (m *MemoryStore) AddRating(rating core.Rating) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[rating.UserID] = append(m.ratings[rating.UserID], rating)
}

// AddReadingHistory 记录用户读过某本书。
func (m *MemoryStore) AddReadingHistory(userID, bookID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.history[userID] == nil {
		m.history[userID] = make(map[string]struct{})
	}
	m.history[userID][bookID] = struct{}{}
}

func (m *MemoryStore) ListBooksWithDescription(ctx context.Context) ([]*core.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Book, 0, len(m.books))
	for _, b := range m.books {
		if b.HasDescription() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryStore) RatingsForUserAtOrAbove(ctx context.Context, userID string, minRating float64) ([]core.PreferenceRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []core.PreferenceRow
	for _, r := range m.ratings[userID] {
		if r.Value < minRating {
			continue
		}
		book, ok := m.byID[r.BookID]
		if !ok {
			// join 语义：书目不存在的评分不产生偏好证据
			continue
		}
		rows = append(rows, core.PreferenceRow{
			BookID: book.ID,
			Genre:  book.Genre,
			Author: book.Author,
			Tags:   book.Tags,
			Rating: r.Value,
		})
	}
	return rows, nil
}

func (m *MemoryStore) AllReadOrReviewedBookIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[string]struct{})
	for _, r := range m.ratings[userID] {
		ids[r.BookID] = struct{}{}
	}
	for id := range m.history[userID] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *MemoryStore) ReplaceRecommendations(ctx context.Context, userID string, recs []*core.Recommendation) error {
	cp := make([]*core.Recommendation, len(recs))
	copy(cp, recs)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[userID] = cp
	return nil
}

// CachedRecommendations 读取用户的推荐缓存；没有时返回 ErrNotFound。
func (m *MemoryStore) CachedRecommendations(userID string) ([]*core.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs, ok := m.recs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return recs, nil
}
