//go:build integration

package repositories

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/sentinel"
	"cargo-tracking-service/internal/platform/tx"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type PostgresRepositoriesSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	ref       ReferenceData
}

func TestPostgresRepositoriesSuite(t *testing.T) {
	suite.Run(t, new(PostgresRepositoriesSuite))
}

func (s *PostgresRepositoriesSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("cargo"),
		tcpostgres.WithUsername("cargo"),
		tcpostgres.WithPassword("cargo"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = sql.Open("pgx", dsn)
	s.Require().NoError(err)
	s.Require().NoError(InitSchema(ctx, s.db))
	// Schema creation is idempotent.
	s.Require().NoError(InitSchema(ctx, s.db))

	s.ref, err = LoadReferenceData("../../../data/seeds/reference.json")
	s.Require().NoError(err)
	s.Require().NoError(SeedReferenceData(ctx, s.db, s.ref))
}

func (s *PostgresRepositoriesSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *PostgresRepositoriesSuite) location(code domain.UnLocode) domain.Location {
	loc, err := NewPostgresLocationRepository(s.db).Find(context.Background(), code)
	s.Require().NoError(err)
	return loc
}

func (s *PostgresRepositoriesSuite) TestReferenceData() {
	ctx := context.Background()

	locations, err := NewPostgresLocationRepository(s.db).FindAll(ctx)
	s.Require().NoError(err)
	s.Len(locations, len(s.ref.Locations))

	_, err = NewPostgresLocationRepository(s.db).Find(ctx, "XXXXX")
	s.ErrorIs(err, sentinel.ErrNotFound)

	v, err := NewPostgresVoyageRepository(s.db).Find(ctx, "V100")
	s.Require().NoError(err)
	s.Len(v.Schedule.CarrierMovements, 4)
	s.Equal("Hong Kong", v.Schedule.CarrierMovements[0].DepartureLocation.Name)

	_, err = NewPostgresVoyageRepository(s.db).Find(ctx, "NOPE")
	s.ErrorIs(err, sentinel.ErrNotFound)

	all, err := NewPostgresVoyageRepository(s.db).FindAll(ctx)
	s.Require().NoError(err)
	s.Len(all, len(s.ref.Voyages))
}

func (s *PostgresRepositoriesSuite) TestCargoRoundTrip() {
	ctx := context.Background()
	cargos := NewPostgresCargoRepository(s.db)
	events := NewPostgresHandlingEventRepository(s.db)

	hongKong, tokyo, newYork := s.location("CNHKG"), s.location("JNTKO"), s.location("USNYC")
	now := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)

	spec, err := domain.NewRouteSpecification(hongKong, newYork, now.Add(60*24*time.Hour))
	s.Require().NoError(err)
	cargo, err := domain.NewCargo(cargos.NextTrackingID(), spec, now)
	s.Require().NoError(err)
	s.Require().NoError(cargos.Store(ctx, cargo))

	_, err = cargos.Find(ctx, "MISSING1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	leg1, err := domain.NewLeg("V100", hongKong, tokyo, now.Add(24*time.Hour), now.Add(5*24*time.Hour))
	s.Require().NoError(err)
	leg2, err := domain.NewLeg("V200", tokyo, newYork, now.Add(6*24*time.Hour), now.Add(14*24*time.Hour))
	s.Require().NoError(err)
	itinerary, err := domain.NewItinerary(leg1, leg2)
	s.Require().NoError(err)
	s.Require().NoError(cargo.AssignToRoute(itinerary, now))

	received, err := domain.NewHandlingEvent(cargo.TrackingID(), now.Add(12*time.Hour), now.Add(13*time.Hour), domain.Receive, hongKong, domain.NoVoyage)
	s.Require().NoError(err)

	runner := tx.NewSQLRunner(s.db)
	err = runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := events.Store(ctx, &received); err != nil {
			return err
		}
		history, err := events.LookupHandlingHistoryOfCargo(ctx, cargo.TrackingID())
		if err != nil {
			return err
		}
		if err := cargo.DeriveDeliveryProgress(history, now.Add(14*time.Hour)); err != nil {
			return err
		}
		return cargos.Store(ctx, cargo)
	})
	s.Require().NoError(err)
	s.NotZero(received.ID)

	loaded, err := cargos.Find(ctx, cargo.TrackingID())
	s.Require().NoError(err)
	s.True(loaded.Itinerary().Equal(itinerary))
	s.True(loaded.RouteSpecification().Equal(spec))
	s.True(loaded.Delivery().SameStatusAs(cargo.Delivery()), "loaded %+v\nwant %+v", loaded.Delivery(), cargo.Delivery())
	s.Equal(domain.InPort, loaded.Delivery().TransportStatus)
	s.Equal(domain.Load, loaded.Delivery().NextExpectedActivity.Type)

	all, err := cargos.FindAll(ctx)
	s.Require().NoError(err)
	s.NotEmpty(all)
}

func (s *PostgresRepositoriesSuite) TestRollbackDiscardsEvent() {
	ctx := context.Background()
	cargos := NewPostgresCargoRepository(s.db)
	events := NewPostgresHandlingEventRepository(s.db)

	now := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	spec, err := domain.NewRouteSpecification(s.location("DEHAM"), s.location("SESTO"), now.Add(30*24*time.Hour))
	s.Require().NoError(err)
	cargo, err := domain.NewCargo(cargos.NextTrackingID(), spec, now)
	s.Require().NoError(err)
	s.Require().NoError(cargos.Store(ctx, cargo))

	boom := errors.New("boom")
	err = tx.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		e, err := domain.NewHandlingEvent(cargo.TrackingID(), now, now, domain.Receive, spec.Origin, domain.NoVoyage)
		if err != nil {
			return err
		}
		if err := events.Store(ctx, &e); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	history, err := events.LookupHandlingHistoryOfCargo(ctx, cargo.TrackingID())
	s.Require().NoError(err)
	s.Zero(history.Len())
}

func (s *PostgresRepositoriesSuite) TestFindInTxLocksCargoRow() {
	ctx := context.Background()
	cargos := NewPostgresCargoRepository(s.db)
	runner := tx.NewSQLRunner(s.db)

	now := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	spec, err := domain.NewRouteSpecification(s.location("CNHKG"), s.location("USNYC"), now.Add(30*24*time.Hour))
	s.Require().NoError(err)
	cargo, err := domain.NewCargo(cargos.NextTrackingID(), spec, now)
	s.Require().NoError(err)
	s.Require().NoError(cargos.Store(ctx, cargo))
	id := cargo.TrackingID()

	locked := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- runner.RunInTx(ctx, func(ctx context.Context) error {
			if _, err := cargos.Find(ctx, id); err != nil {
				close(locked)
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	// Reads outside a transaction are not blocked.
	_, err = cargos.Find(ctx, id)
	s.Require().NoError(err)

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err = runner.RunInTx(waitCtx, func(ctx context.Context) error {
		_, err := cargos.Find(ctx, id)
		return err
	})
	s.Error(err, "second writer loaded the cargo while the first held its row")

	close(release)
	s.Require().NoError(<-firstDone)

	err = runner.RunInTx(ctx, func(ctx context.Context) error {
		_, err := cargos.Find(ctx, id)
		return err
	})
	s.NoError(err)

	err = runner.RunInTx(ctx, func(ctx context.Context) error {
		_, err := cargos.Find(ctx, "MISSING2")
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}
