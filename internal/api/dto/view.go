package dto

// TrackViewResultDTO 阅读打点结果
type TrackViewResultDTO struct {
	Counted    bool  `json:"counted"`
	ViewsCount int64 `json:"views_count"`
}

// ViewCountDTO 阅读量
type ViewCountDTO struct {
	NovelID    uint64 `json:"novel_id"`
	ViewsCount int64  `json:"views_count"`
}
