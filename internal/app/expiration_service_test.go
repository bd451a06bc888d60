package app

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"visaguard_bot/internal/domain/record"
	idb "visaguard_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type sentAlert struct {
	title string
	body  string
}

// recorderNotifier captures alerts; fail makes every Show call error.
type recorderNotifier struct {
	alerts []sentAlert
	fail   bool
}

func (n *recorderNotifier) Show(title, body string) error {
	if n.fail {
		return fmt.Errorf("notifier unavailable")
	}
	n.alerts = append(n.alerts, sentAlert{title: title, body: body})
	return nil
}

type recorderMessenger struct {
	sent []string
}

func (m *recorderMessenger) Send(_ *record.Person, text string) error {
	m.sent = append(m.sent, text)
	return nil
}

type engineFixture struct {
	svc       *ExpirationServiceImpl
	store     *idb.RecordStore
	notifier  *recorderNotifier
	messenger *recorderMessenger
}

func newEngineFixture(t *testing.T, today time.Time) *engineFixture {
	t.Helper()
	store := idb.NewRecordStore(idb.NewMemoryStateRepository(), testLogger())
	notifier := &recorderNotifier{}
	messenger := &recorderMessenger{}
	svc := NewExpirationService(store, notifier, messenger, testLogger())
	svc.now = func() time.Time { return today }
	return &engineFixture{svc: svc, store: store, notifier: notifier, messenger: messenger}
}

func (f *engineFixture) seed(t *testing.T, persons ...record.Person) {
	t.Helper()
	require.NoError(t, f.store.SavePersons(context.Background(), persons))
}

func (f *engineFixture) persons(t *testing.T) []record.Person {
	t.Helper()
	persons, err := f.store.Persons(context.Background())
	require.NoError(t, err)
	return persons
}

func expiring(id string, today time.Time, daysFromNow int) record.Person {
	return record.Person{
		ID:             id,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		DocumentType:   "Visa",
		Country:        "UK",
		ExpirationDate: today.AddDate(0, 0, daysFromNow).Format(record.DateLayout),
	}
}

var noon = time.Date(2026, time.May, 10, 12, 0, 0, 0, time.Local)

func TestCheckNoAlertsForSafeOrUndatedRecords(t *testing.T) {
	f := newEngineFixture(t, noon)
	undated := record.Person{ID: "u1", FirstName: "No", LastName: "Date"}
	f.seed(t, expiring("p1", noon, 31), undated, expiring("p2", noon, 400))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	assert.Empty(t, f.notifier.alerts)
	for _, p := range f.persons(t) {
		assert.False(t, p.Notified30, p.ID)
		assert.False(t, p.Notified7, p.ID)
		assert.False(t, p.NotifiedExpired, p.ID)
	}
}

func TestCheckEarlyWarningTier(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, 20))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	require.Len(t, f.notifier.alerts, 1)
	assert.Equal(t, "Visa Expiration Warning", f.notifier.alerts[0].title)
	assert.Contains(t, f.notifier.alerts[0].body, "Ada Lovelace's Visa expires in 20 days")

	p := f.persons(t)[0]
	assert.True(t, p.Notified30)
	assert.False(t, p.Notified7)
	assert.False(t, p.NotifiedExpired)
}

func TestCheckUrgentTierAfterEarlyWarning(t *testing.T) {
	f := newEngineFixture(t, noon)
	p := expiring("p1", noon, 5)
	p.Notified30 = true
	f.seed(t, p)

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	require.Len(t, f.notifier.alerts, 1)
	assert.Equal(t, "Visa Expiring Soon", f.notifier.alerts[0].title)
	assert.Contains(t, f.notifier.alerts[0].body, "URGENT")
	assert.Contains(t, f.notifier.alerts[0].body, "expires in 5 days")

	got := f.persons(t)[0]
	assert.True(t, got.Notified30, "already-fired flag stays set")
	assert.True(t, got.Notified7)
	assert.False(t, got.NotifiedExpired)
}

func TestCheckExpiredTierJumpsSkippedTiers(t *testing.T) {
	// The app was down while the record sailed past both warning
	// windows: exactly one expired alert, but all three flags end set.
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, -1))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	require.Len(t, f.notifier.alerts, 1)
	assert.Equal(t, "Visa Expired", f.notifier.alerts[0].title)
	assert.Contains(t, f.notifier.alerts[0].body, "has expired")

	got := f.persons(t)[0]
	assert.True(t, got.Notified30)
	assert.True(t, got.Notified7)
	assert.True(t, got.NotifiedExpired)
}

func TestCheckFiresEachTierOnce(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, 20))

	for i := 0; i < 3; i++ {
		require.NoError(t, f.svc.CheckExpirations(context.Background(), true))
	}
	assert.Len(t, f.notifier.alerts, 1, "repeat forced checks must not re-fire a tier")
}

func TestCheckRecordPassesThroughAllTiersOverTime(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, 20))

	run := func(today time.Time) {
		f.svc.now = func() time.Time { return today }
		require.NoError(t, f.svc.CheckExpirations(context.Background(), true))
	}

	run(noon)                     // 20 days left -> early warning
	run(noon.AddDate(0, 0, 16))   // 4 days left  -> urgent
	run(noon.AddDate(0, 0, 25))   // 5 days past  -> expired

	require.Len(t, f.notifier.alerts, 3)
	assert.Equal(t, "Visa Expiration Warning", f.notifier.alerts[0].title)
	assert.Equal(t, "Visa Expiring Soon", f.notifier.alerts[1].title)
	assert.Equal(t, "Visa Expired", f.notifier.alerts[2].title)
}

func TestCheckUnforcedSkipsWhenAlreadyRunToday(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, 20))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), false))
	require.Len(t, f.notifier.alerts, 1)

	// Add a newly-eligible record; the same-day unforced check is a no-op.
	persons := f.persons(t)
	persons = append(persons, expiring("p2", noon, 3))
	require.NoError(t, f.store.SavePersons(context.Background(), persons))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), false))
	assert.Len(t, f.notifier.alerts, 1, "unforced same-day check must be a no-op")

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))
	assert.Len(t, f.notifier.alerts, 2, "forced check bypasses the guard")
}

func TestCheckUnforcedRunsOnNewDay(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, 20))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), false))
	require.Len(t, f.notifier.alerts, 1)

	f.svc.now = func() time.Time { return noon.AddDate(0, 0, 14) } // now 6 days left
	require.NoError(t, f.svc.CheckExpirations(context.Background(), false))
	assert.Len(t, f.notifier.alerts, 2)
}

func TestCheckWritesLastCheckDateEvenWithoutChanges(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.seed(t, expiring("p1", noon, 100))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	last, err := f.store.LastCheckDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, noon.Format(record.DateLayout), last)
}

func TestCheckNotifierFailureDoesNotAbortRun(t *testing.T) {
	f := newEngineFixture(t, noon)
	f.notifier.fail = true
	f.seed(t, expiring("p1", noon, 20), expiring("p2", noon, -3))

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	// Flags flip and the batch is persisted even though delivery failed;
	// the messenger stub was still invoked for both records.
	persons := f.persons(t)
	assert.True(t, persons[0].Notified30)
	assert.True(t, persons[1].NotifiedExpired)
	assert.Len(t, f.messenger.sent, 2)
}

func TestCheckMessengerReceivesAlertText(t *testing.T) {
	f := newEngineFixture(t, noon)
	p := expiring("p1", noon, 20)
	p.PhoneNumber = "+4915112345678"
	f.seed(t, p)

	require.NoError(t, f.svc.CheckExpirations(context.Background(), true))

	require.Len(t, f.messenger.sent, 1)
	assert.Contains(t, f.messenger.sent[0], "expires in 20 days")
}

func TestCheckEmptyStoreIsHarmless(t *testing.T) {
	f := newEngineFixture(t, noon)
	require.NoError(t, f.svc.CheckExpirations(context.Background(), false))
	assert.Empty(t, f.notifier.alerts)
}
