package taxslab

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	taxslaberrors "hrms-payroll/internal/taxslab/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSlabRepo struct {
	active      *TaxSlab
	findCalls   int
	deactivated bool
	created     *TaxSlab
}

func (f *fakeSlabRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeSlabRepo) Create(ctx context.Context, slab *TaxSlab) error {
	f.created = slab
	f.active = slab
	return nil
}

func (f *fakeSlabRepo) FindActiveByCompany(ctx context.Context, companyID string) (*TaxSlab, error) {
	f.findCalls++
	if f.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.active, nil
}

func (f *fakeSlabRepo) FindAllByCompany(ctx context.Context, companyID string) ([]TaxSlab, error) {
	if f.active == nil {
		return nil, nil
	}
	return []TaxSlab{*f.active}, nil
}

func (f *fakeSlabRepo) DeactivateAll(ctx context.Context, companyID string) error {
	f.deactivated = true
	if f.active != nil {
		f.active.IsActive = false
	}
	return nil
}

func activeSlabFixture(companyID uuid.UUID) *TaxSlab {
	slab := &TaxSlab{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "Karnataka PT 2024",
		State:     "Karnataka",
		IsActive:  true,
	}
	band := TaxSlabBand{
		ID:        uuid.New(),
		TaxSlabID: slab.ID,
		BandIndex: 1,
		Gender:    "All",
		MinLimit:  25000,
		MaxLimit:  1e9,
	}
	rates := [12]float64{}
	for i := range rates {
		rates[i] = 200
	}
	band.setRates(rates)
	slab.Bands = []TaxSlabBand{band}
	return slab
}

func TestService_ActiveBands_CacheMiss(t *testing.T) {
	companyID := uuid.New()
	repo := &fakeSlabRepo{active: activeSlabFixture(companyID)}

	rdb, rmock := redismock.NewClientMock()
	key := activeSlabKey(companyID.String())

	wantBands := []Band{{
		Gender:   "All",
		MinLimit: 25000,
		MaxLimit: 1e9,
		Rates:    repo.active.Bands[0].rates(),
	}}
	payload, err := json.Marshal(wantBands)
	require.NoError(t, err)

	rmock.ExpectGet(key).RedisNil()
	rmock.ExpectSet(key, payload, activeSlabTTL).SetVal("OK")

	svc := NewService(nil, repo, rdb)

	bands, err := svc.ActiveBands(context.Background(), companyID.String())
	require.NoError(t, err)
	assert.Equal(t, wantBands, bands)
	assert.Equal(t, 1, repo.findCalls)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestService_ActiveBands_CacheHit(t *testing.T) {
	companyID := uuid.New()
	repo := &fakeSlabRepo{active: activeSlabFixture(companyID)}

	rdb, rmock := redismock.NewClientMock()
	key := activeSlabKey(companyID.String())

	cached := []Band{{Gender: "All", MinLimit: 10000, MaxLimit: 20000}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	rmock.ExpectGet(key).SetVal(string(payload))

	svc := NewService(nil, repo, rdb)

	bands, err := svc.ActiveBands(context.Background(), companyID.String())
	require.NoError(t, err)
	assert.Equal(t, cached, bands)
	assert.Zero(t, repo.findCalls, "cache hit must not touch the repository")
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestService_ActiveBands_NoConfiguration(t *testing.T) {
	svc := NewService(nil, &fakeSlabRepo{}, nil)

	bands, err := svc.ActiveBands(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, bands)
}

func validUpsertRequest() UpsertTaxSlabRequest {
	rates := [12]float64{}
	for i := range rates {
		rates[i] = 200
	}
	return UpsertTaxSlabRequest{
		Name:  "Karnataka PT 2024",
		State: "Karnataka",
		Bands: []BandInput{
			{Gender: "All", MinLimit: 25000, MaxLimit: 1e9, Rates: rates},
		},
	}
}

func TestService_Upsert(t *testing.T) {
	companyID := uuid.New()
	repo := &fakeSlabRepo{active: activeSlabFixture(companyID)}

	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	dbmock.ExpectBegin()
	dbmock.ExpectCommit()

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectDel(activeSlabKey(companyID.String())).SetVal(1)

	svc := NewService(db, repo, rdb)

	resp, err := svc.Upsert(context.Background(), companyID.String(), validUpsertRequest())
	require.NoError(t, err)
	assert.True(t, repo.deactivated)
	require.NotNil(t, repo.created)
	assert.True(t, resp.IsActive)
	require.Len(t, resp.Bands, 1)
	assert.Equal(t, 1, resp.Bands[0].BandIndex)
	assert.NoError(t, dbmock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestService_Upsert_Validation(t *testing.T) {
	svc := NewService(nil, &fakeSlabRepo{}, nil)
	companyID := uuid.NewString()

	t.Run("invalid company id", func(t *testing.T) {
		_, err := svc.Upsert(context.Background(), "nope", validUpsertRequest())
		assert.ErrorIs(t, err, taxslaberrors.ErrInvalidCompanyID)
	})

	t.Run("too many bands", func(t *testing.T) {
		req := validUpsertRequest()
		for len(req.Bands) <= maxBands {
			req.Bands = append(req.Bands, req.Bands[0])
		}
		_, err := svc.Upsert(context.Background(), companyID, req)
		assert.ErrorIs(t, err, taxslaberrors.ErrTooManyBands)
	})

	t.Run("inverted band range", func(t *testing.T) {
		req := validUpsertRequest()
		req.Bands[0].MinLimit = 50000
		req.Bands[0].MaxLimit = 25000
		_, err := svc.Upsert(context.Background(), companyID, req)
		assert.ErrorIs(t, err, taxslaberrors.ErrInvalidBandRange)
	})

	t.Run("unknown gender", func(t *testing.T) {
		req := validUpsertRequest()
		req.Bands[0].Gender = "Other"
		_, err := svc.Upsert(context.Background(), companyID, req)
		assert.ErrorIs(t, err, taxslaberrors.ErrInvalidBandGender)
	})
}

func TestService_GetActive_NotFound(t *testing.T) {
	svc := NewService(nil, &fakeSlabRepo{}, nil)

	_, err := svc.GetActive(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, taxslaberrors.ErrSlabConfigNotFound)
}

func TestNormalizeGender(t *testing.T) {
	for input, want := range map[string]string{
		" all ":  "All",
		"MALE":   "Male",
		"female": "Female",
	} {
		got, ok := normalizeGender(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got)
	}

	_, ok := normalizeGender("unknown")
	assert.False(t, ok)
}
