package domain

// Region of the game server the request targets.
type Region string

const (
	RegionJP Region = "jp"
	RegionEN Region = "en"
	RegionTW Region = "tw"
	RegionKR Region = "kr"
	RegionCN Region = "cn"
)

// RecommendRequest is the transport envelope of one recommend call.
type RecommendRequest struct {
	CreateTs int64  `json:"create_ts"`
	Region   Region `json:"region" validate:"required,oneof=jp en tw kr cn"`

	MasterdataPath     string `json:"masterdata_path" validate:"required"`
	MasterdataUpdateTs int64  `json:"masterdata_update_ts"`
	MusicmetasPath     string `json:"musicmetas_path" validate:"required"`
	MusicmetasUpdateTs int64  `json:"musicmetas_update_ts"`

	// Either the hash of a previously cached snapshot or the inline raw
	// snapshot bytes.
	UserdataHash string `json:"userdata_hash"`
	Userdata     []byte `json:"userdata"`

	Options RecommendOptions `json:"options"`
}

// RecommendResponse mirrors the original service's JSON: either a success
// envelope with the deck list, or status=error with the message.
type RecommendResponse struct {
	Status    string           `json:"status"`
	Alg       Algorithm        `json:"alg,omitempty"`
	CostTime  float64          `json:"cost_time,omitempty"`
	WaitTime  float64          `json:"wait_time,omitempty"`
	Result    *RecommendResult `json:"result,omitempty"`
	Warning   string           `json:"warning,omitempty"`
	Exception string           `json:"exception,omitempty"`
}
