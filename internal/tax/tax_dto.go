package tax

import "github.com/shopspring/decimal"

type BracketRequest struct {
	Block *decimal.Decimal `json:"block"`
	Rate  decimal.Decimal  `json:"rate"`
}

type ReplaceTableRequest struct {
	Brackets []BracketRequest `json:"brackets" binding:"required,min=1,dive"`
}

type CalculateRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type BracketResponse struct {
	Block *string `json:"block"`
	Rate  string  `json:"rate"`
}

type TableResponse struct {
	Year     int               `json:"year"`
	Brackets []BracketResponse `json:"brackets"`
}

type CalculateResponse struct {
	Year    int    `json:"year"`
	Taxable string `json:"taxable"`
	Tax     string `json:"tax"`
}

func toTableResponse(year int, brackets []Bracket) TableResponse {
	resp := TableResponse{Year: year, Brackets: make([]BracketResponse, 0, len(brackets))}
	for _, b := range Sorted(brackets) {
		br := BracketResponse{Rate: b.Rate.StringFixed(2)}
		if b.Block.Valid {
			s := b.Block.Decimal.StringFixed(2)
			br.Block = &s
		}
		resp.Brackets = append(resp.Brackets, br)
	}
	return resp
}
