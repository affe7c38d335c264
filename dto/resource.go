package dto

type ResourceFilter struct {
	Domain     string `query:"domain"`
	Difficulty string `query:"difficulty"`
	Type       string `query:"type" validate:"omitempty,oneof=article video guide"`
}

func (f ResourceFilter) Validate() error {
	return GetValidator().Struct(f)
}

type ResourceResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	URL         string   `json:"url"`
	Domain      string   `json:"domain"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
	Rating      float64  `json:"rating"`
}

type CuratedItem struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type CuratedResourcesResponse struct {
	LeetCode []CuratedItem `json:"leetcode"`
	GFG      []CuratedItem `json:"gfg"`
	Articles []CuratedItem `json:"articles"`
	Notice   string        `json:"notice,omitempty"`
	Fallback bool          `json:"fallback"`
}
