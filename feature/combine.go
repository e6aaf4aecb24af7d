package feature

import (
	"strings"

	"github.com/bookwise/bookrec/core"
)

// CombineTextFeatures 把一本书的各类文本字段拼成一个 TF-IDF 输入串。
//
// 拼接顺序与权重策略：
//   - Description 原文一次（主要内容）
//   - Genre 重复 3 次（相对单次出现的词项提升其 TF-IDF 权重）
//   - 每个 Subgenre 一次
//   - 每个 Tag 一次
//   - Author 作为单 token："author_" 前缀 + 下划线连接，
//     既与普通词汇区分，又避免多词姓名被分词拆散
//
// 缺失/空字段不产生任何占位 token。纯函数，输入确定则输出确定。
func CombineTextFeatures(book *core.Book) string {
	if book == nil {
		return ""
	}

	features := make([]string, 0, 8)

	if book.Description != "" {
		features = append(features, book.Description)
	}

	if book.Genre != "" {
		features = append(features, book.Genre, book.Genre, book.Genre)
	}

	for _, sg := range book.Subgenres {
		if sg != "" {
			features = append(features, sg)
		}
	}

	for _, tag := range book.Tags {
		if tag != "" {
			features = append(features, tag)
		}
	}

	if book.Author != "" {
		features = append(features, "author_"+strings.ReplaceAll(book.Author, " ", "_"))
	}

	return strings.Join(features, " ")
}
