package queries_test

import (
	"context"
	"time"

	"parcelflow/internal/adapters/out/postgres/driverrepo"
	"parcelflow/internal/adapters/out/postgres/historyrepo"
	"parcelflow/internal/adapters/out/postgres/parcelrepo"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockAggregateTracker satisfies the repositories' tracker dependency.
type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// postgresSuite starts one PostgreSQL container for a handler test suite and
// wipes the tables between tests.
type postgresSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	parcelRepo *parcelrepo.GormParcelRepository
	ledger     *historyrepo.GormHistoryLedger
}

func (s *postgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(db.AutoMigrate(
		&parcelrepo.ParcelDTO{},
		&driverrepo.DriverDTO{},
		&historyrepo.HistoryEntryDTO{},
	))

	s.parcelRepo = parcelrepo.NewGormParcelRepository(db, &mockAggregateTracker{})
	s.ledger = historyrepo.NewGormHistoryLedger(db)
}

func (s *postgresSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *postgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE parcels, drivers, parcel_history").Error)
}

// storedParcel is a parcel fixture persisted by the suite helpers.
type storedParcel struct {
	parcel      *parcel.Parcel
	senderID    kernel.UUID
	recipientID kernel.UUID
}

// addParcel stores a pending parcel with registered sender and recipient.
func (s *postgresSuite) addParcel() storedParcel {
	senderID := kernel.NewUUID()
	recipientID := kernel.NewUUID()

	sender, err := parcel.NewRegisteredParty(senderID, "Dana Reyes", "dana@example.com", "+15550100")
	s.Require().NoError(err)
	recipient, err := parcel.NewRegisteredParty(recipientID, "Lee Okafor", "lee@example.com", "+15550101")
	s.Require().NoError(err)

	trackingNumber, err := parcel.GenerateTrackingNumber()
	s.Require().NoError(err)

	p, err := parcel.NewParcel(
		kernel.NewUUID(),
		trackingNumber,
		sender,
		recipient,
		"12 Oak Lane",
		"7 Elm Street",
		2.5,
		89.5,
		nil,
		nil,
	)
	s.Require().NoError(err)
	s.Require().NoError(s.parcelRepo.Add(context.Background(), p))

	return storedParcel{parcel: p, senderID: senderID, recipientID: recipientID}
}

// appendHistory writes one ledger row for the parcel.
func (s *postgresSuite) appendHistory(p *parcel.Parcel, status parcel.Status, at time.Time) *parcel.HistoryEntry {
	entry, err := parcel.NewHistoryEntry(p.ID(), status, kernel.NewUUID(), nil, "", at)
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.Append(context.Background(), entry))
	return entry
}
