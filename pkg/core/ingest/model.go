package ingest

type Req struct {
	MetadataPath string
	ResultsPath  string
}

type Resp struct {
	AnalysisID int64 `json:"analysis_id"`
	Samples    int   `json:"samples"`
	Results    int   `json:"results"`
}

// Metadata is the contract of the metadata JSON file: one Analysis block
// and an array of Samples.
type Metadata struct {
	Analysis AnalysisMeta `json:"Analysis"`
	Samples  []SampleMeta `json:"Samples"`
}

type AnalysisMeta struct {
	Name       string `json:"analysis_name"`
	Date       string `json:"date"` // yyyy-mm-dd, defaults to today
	Department string `json:"department"`
	Analyst    string `json:"analyst"`
}

type SampleMeta struct {
	Name        string  `json:"sample_name"`
	Type        *string `json:"sample_type"`
	Description *string `json:"sample_description"`
}
