package taxslab

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxSlab is one professional-tax configuration. A company has at most
// one active configuration at a time; the payroll engine only ever
// reads the active one.
type TaxSlab struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Name      string        `gorm:"type:varchar(120);not null"`
	State     string        `gorm:"type:varchar(80)"`
	IsActive  bool          `gorm:"not null;default:false;index"`
	Bands     []TaxSlabBand `gorm:"foreignKey:TaxSlabID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TaxSlab) TableName() string {
	return "tax_slabs"
}

// TaxSlabBand is one ordered band of a configuration. Bands are
// evaluated by ascending BandIndex and the first gender+income match
// wins, so index order is load-bearing, not cosmetic.
type TaxSlabBand struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaxSlabID uuid.UUID `gorm:"type:uuid;not null;index:idx_tax_slab_bands_slab_index,unique"`
	BandIndex int       `gorm:"not null;index:idx_tax_slab_bands_slab_index,unique"`
	Gender    string    `gorm:"type:varchar(10);not null;default:'All'"`
	MinLimit  float64   `gorm:"type:numeric(14,2);not null;default:0"`
	MaxLimit  float64   `gorm:"type:numeric(14,2);not null;default:0"`

	RateJan float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateFeb float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateMar float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateApr float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateMay float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateJun float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateJul float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateAug float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateSep float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateOct float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateNov float64 `gorm:"type:numeric(10,2);not null;default:0"`
	RateDec float64 `gorm:"type:numeric(10,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TaxSlabBand) TableName() string {
	return "tax_slab_bands"
}

func (b *TaxSlabBand) setRates(rates [12]float64) {
	b.RateJan, b.RateFeb, b.RateMar, b.RateApr = rates[0], rates[1], rates[2], rates[3]
	b.RateMay, b.RateJun, b.RateJul, b.RateAug = rates[4], rates[5], rates[6], rates[7]
	b.RateSep, b.RateOct, b.RateNov, b.RateDec = rates[8], rates[9], rates[10], rates[11]
}

// rates flattens the month columns into a January-first array so the
// engine can index by month number instead of column name.
func (b TaxSlabBand) rates() [12]float64 {
	return [12]float64{
		b.RateJan, b.RateFeb, b.RateMar, b.RateApr,
		b.RateMay, b.RateJun, b.RateJul, b.RateAug,
		b.RateSep, b.RateOct, b.RateNov, b.RateDec,
	}
}
