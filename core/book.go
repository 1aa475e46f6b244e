package core

import "time"

// Book 是目录中的一本书。ID 是稳定主键；内容字段随目录刷新追加，不做就地修改。
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	AvgRating   float64  `json:"avg_rating"`
	ReviewCount int      `json:"review_count"`
	CoverLink   string   `json:"cover_link"`

	// Tags 是内容标签（类目、主题词等），与标题/作者一起参与内容特征。
	Tags []string `json:"tags,omitempty"`
}

// Rating 是一条用户-书目评分。(UserID, ItemID) 唯一，后写覆盖先写；
// 进入快照后不可变。
type Rating struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}
