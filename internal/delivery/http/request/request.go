package request

type SearchRequest struct {
	Query string `json:"query"`
}
