package taxslab

// BandInput is one band of an upsert request. Rates are January-first,
// twelve entries.
type BandInput struct {
	Gender   string      `json:"gender" binding:"required,oneof=All Male Female all male female"`
	MinLimit float64     `json:"min_limit" binding:"gte=0"`
	MaxLimit float64     `json:"max_limit" binding:"gte=0"`
	Rates    [12]float64 `json:"rates"`
}

type UpsertTaxSlabRequest struct {
	Name  string      `json:"name" binding:"required,max=120"`
	State string      `json:"state" binding:"max=80"`
	Bands []BandInput `json:"bands" binding:"required,min=1,max=5,dive"`
}

type BandResponse struct {
	BandIndex int         `json:"band_index"`
	Gender    string      `json:"gender"`
	MinLimit  float64     `json:"min_limit"`
	MaxLimit  float64     `json:"max_limit"`
	Rates     [12]float64 `json:"rates"`
}

type TaxSlabResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	State    string         `json:"state"`
	IsActive bool           `json:"is_active"`
	Bands    []BandResponse `json:"bands"`
}
