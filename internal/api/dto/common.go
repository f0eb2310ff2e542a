package dto

// Response 统一响应封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO 通用分页参数
type PageDTO struct {
	Limit  int `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `form:"offset" json:"offset" validate:"omitempty,min=0"`
}

// Normalize 给分页参数补默认值
func (p *PageDTO) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
