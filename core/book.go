package core

import "time"

// Book 是推荐链路中的统一物品结构：文本内容、分类信息、质量信号。
//
// 可选字段的语义：
//   - 字符串/切片字段缺失时为空值，特征构建阶段直接跳过，不产生占位 token
//   - Pages / AverageRating / ReviewCount / PopularityScore 缺失时在
//     特征构建阶段按默认值补齐（Pages→300，其余→0），不在领域层报错
//
// 约束：只有 Description 非空的 Book 才会进入内容矩阵。
type Book struct {
	ID     string
	Title  string
	Author string

	// 分类信息
	Genre     string
	Subgenres []string
	Tags      []string

	// 文本内容（内容矩阵的主要信号来源）
	Description string

	// 质量/热度信号
	Pages           int
	AverageRating   float64 // 0-5
	ReviewCount     int
	PopularityScore float64

	// 元数据
	PublishedDate time.Time
	Language      string
}

// HasDescription 判断 Book 是否有资格进入内容矩阵。
func (b *Book) HasDescription() bool {
	return b.Description != ""
}

// Rating 是一条用户评分记录（user 与 item 多对多）。
type Rating struct {
	UserID    string
	BookID    string
	Value     float64 // 1-5
	CreatedAt time.Time
}
