package model

type ErrorResponse struct {
	Error string `json:"detail"`
	Kind  string `json:"kind,omitempty"`
}

type MetadataRequest struct {
	Name       *string `json:"name"`
	Author     *string `json:"author"`
	ID         *string `json:"id"`
	Difficulty *string `json:"difficulty"`
}

type ConvertRequest struct {
	Format string `json:"format"`
}

type InsertNoteRequest struct {
	Time     float64  `json:"time"`
	Position Position `json:"position"`
}

type InsertNoteResponse struct {
	Time int `json:"time"`
}

type NoteResponse struct {
	Time     int      `json:"time"`
	Index    int      `json:"index"`
	Position Position `json:"position"`
	Color    uint32   `json:"color"`
}

type OffsetRequest struct {
	Delta int `json:"delta"`
}

type DeleteRangeRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type DeleteRangeResponse struct {
	Deleted int `json:"deleted"`
}

type SplineNode struct {
	Time     int      `json:"time"`
	Position Position `json:"position"`
}

// SplineRequest previews a curve, or inserts it when Place is set.
type SplineRequest struct {
	Nodes []SplineNode `json:"nodes"`
	Count int          `json:"count"`
	Place bool         `json:"place"`
}

type TimingResponse struct {
	Raw           bool    `json:"raw"`
	Time          float64 `json:"time"`
	Snapped       int     `json:"snapped"`
	Measure       int     `json:"measure"`
	Beat          float64 `json:"beat"`
	BeatInMeasure float64 `json:"beat_in_measure"`
	MeasureLabel  string  `json:"measure_label"`
	BeatLabel     string  `json:"beat_label"`
}

type SaveRequest struct {
	Path string `json:"path"`
}

type SaveResponse struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
}
