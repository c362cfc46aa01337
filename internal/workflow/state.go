package workflow

// State is the workflow's tagged union. Exactly one variant holds at a time,
// so "loading and has a result" cannot be expressed.
type State interface {
	isState()
	String() string
}

// Result is a successful prediction.
type Result struct {
	Disease     string   `json:"disease"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
}

// Idle is the state before Start.
type Idle struct{}

// LoadingCatalog holds while the symptom catalog is being fetched.
type LoadingCatalog struct{}

// CatalogError holds when the catalog could not be fetched. Prediction stays
// disabled until a new session loads successfully.
type CatalogError struct {
	Message string
}

// Ready means the catalog is loaded and no prediction is held. Validation is
// set when a predict was rejected because nothing was selected.
type Ready struct {
	Validation string
}

// PredictingInFlight holds while the single allowed request is outstanding.
type PredictingInFlight struct {
	Symptoms []string
}

type PredictionSucceeded struct {
	Result Result
}

type PredictionFailed struct {
	Message string
}

func (Idle) isState()                {}
func (LoadingCatalog) isState()      {}
func (CatalogError) isState()        {}
func (Ready) isState()               {}
func (PredictingInFlight) isState()  {}
func (PredictionSucceeded) isState() {}
func (PredictionFailed) isState()    {}

func (Idle) String() string                { return "idle" }
func (LoadingCatalog) String() string      { return "loading_catalog" }
func (CatalogError) String() string        { return "catalog_error" }
func (Ready) String() string               { return "ready" }
func (PredictingInFlight) String() string  { return "predicting" }
func (PredictionSucceeded) String() string { return "prediction_succeeded" }
func (PredictionFailed) String() string    { return "prediction_failed" }
