package dto

// MetricPointDTO 趋势图上的一个点
type MetricPointDTO struct {
	Date          string `json:"date"`
	TotalViews    int64  `json:"total_views"`
	TotalComments int    `json:"total_comments"`
	TotalRatings  int    `json:"total_ratings"`
}

// NovelTrendDTO 作品趋势
type NovelTrendDTO struct {
	NovelID uint64            `json:"novel_id"`
	Points  []*MetricPointDTO `json:"points"`
}
