package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendReport(ctx context.Context, delivery *models.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

var header = []interface{}{"Property Name", "Fixtures", "Domain Name", "URL", "Status", "Identification Timestamp", "Matchday"}

func testWorkbook(t *testing.T) []byte {
	t.Helper()

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{"Infringing", [][]interface{}{
			header,
			{"Ligue 1", "PSG v OM", "pirate.tv", "u1", "Approved", "2024-01-15", "Matchday 1"},
			{"Ligue 1", "PSG v OM", "pirate.tv", "u2", "Pending", "2024-01-16", "Matchday 2"},
			{"Serie A", "Inter v Milan", "stream.io", "u3", "Removed", "2024-02-01", "Matchday 10"},
		}},
		{"Source", [][]interface{}{header}},
		{"Telegram", [][]interface{}{
			{"Property Name", "Fixtures", "Domain Name", "URL", "Status", "Identification Timestamp", "Channel Name", "Channel Subscribers", "Views", "Channel Status", "Channel Type"},
			{"Ligue 1", "PSG v OM", "t.me/a", "t1", "Approved", "2024-01-20", "A", "1000", "120", "Suspended", "Public"},
			{"Ligue 1", "OL v LOSC", "t.me/b", "t2", "Pending", "2024-01-21", "B", "500", "80", "Active", "Private"},
		}},
		{"Social", [][]interface{}{
			header,
			{"Ligue 1", "PSG v OM", "twitter.com", "s1", "Removed", "2024-01-18", ""},
		}},
		{"Apps", [][]interface{}{
			{"Property Name", "Fixtures", "Domain Name", "URL", "Status", "Identification Timestamp", "App Name", "Downloads"},
			{"Ligue 1", "PSG v OM", "play.google.com", "m1", "Pending", "2024-01-19", "StreamX", "5000"},
		}},
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sh.name))
		} else {
			_, err := f.NewSheet(sh.name)
			require.NoError(t, err)
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(sh.name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestService(t *testing.T, cfg *config.Config) (*Service, *MockStorage, *MockNotificationService) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	mockStorage := &MockStorage{}
	mockNotifications := &MockNotificationService{}
	return NewService(cfg, mockStorage, mockNotifications, nil), mockStorage, mockNotifications
}

func loaded(t *testing.T, cfg *config.Config) (*Service, *MockStorage, *MockNotificationService) {
	t.Helper()
	service, mockStorage, mockNotifications := newTestService(t, cfg)
	mockStorage.On("Store", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	_, err := service.Ingest(context.Background(), "weekly.xlsx", testWorkbook(t))
	require.NoError(t, err)
	return service, mockStorage, mockNotifications
}

func TestService_NoDataset(t *testing.T) {
	service, mockStorage, mockNotifications := newTestService(t, nil)

	_, err := service.Dashboard(models.Selection{}, false)
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = service.Telegram(models.Selection{}, false)
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = service.BuildReport(models.Selection{})
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = service.ExportFiltered(models.Selection{})
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = service.Options()
	assert.ErrorIs(t, err, ErrNoDataset)

	assert.NoError(t, service.RunScheduledReport(context.Background()))
	mockStorage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
	mockNotifications.AssertNotCalled(t, "SendReport", mock.Anything, mock.Anything)
}

func TestService_Ingest(t *testing.T) {
	service, mockStorage, _ := newTestService(t, nil)
	mockStorage.On("Store", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "uploads/") && strings.HasSuffix(name, "_weekly.xlsx")
	}), mock.Anything).Return(nil)

	events, unsubscribe := service.Subscribe(1)
	defer unsubscribe()

	result, err := service.Ingest(context.Background(), "weekly.xlsx", testWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, 7, result.Rows)
	assert.Equal(t, 0, result.Dropped)
	assert.Len(t, result.Sheets, 5)
	require.NotNil(t, service.Current())
	assert.Equal(t, result.DatasetID, service.Current().ID)
	mockStorage.AssertExpectations(t)

	select {
	case e := <-events:
		assert.Equal(t, EventDatasetReplaced, e.Type)
		assert.Equal(t, result.DatasetID, e.DatasetID)
		assert.Equal(t, 7, e.Rows)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	assert.Contains(t, service.GetMetrics(), result.DatasetID)
	assert.Contains(t, service.GetMetrics(), `"uploads": 1`)
}

func TestService_IngestRejectedKeepsSnapshot(t *testing.T) {
	service, _, _ := loaded(t, nil)
	before := service.Current()

	_, err := service.Ingest(context.Background(), "broken.xlsx", []byte("not a workbook"))
	require.Error(t, err)

	assert.Same(t, before, service.Current())
	assert.Contains(t, service.GetMetrics(), `"failed_uploads": 1`)
}

func TestService_IngestArchiveFailureStillInstalls(t *testing.T) {
	service, mockStorage, _ := newTestService(t, nil)
	mockStorage.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("storage down"))

	result, err := service.Ingest(context.Background(), "weekly.xlsx", testWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, result.DatasetID, service.Current().ID)
	assert.Contains(t, service.GetMetrics(), "storage down")
}

func TestService_Dashboard(t *testing.T) {
	service, _, _ := loaded(t, nil)

	view, err := service.Dashboard(models.Selection{}, false)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Rows)
	assert.Equal(t, 7, view.Summary.TotalInfringements)
	assert.Equal(t, 2, view.Summary.TotalProperties)
	assert.Nil(t, view.Records)
	require.Len(t, view.MatchdayTotals, 3)
	assert.Equal(t, "Matchday 10", view.MatchdayTotals[2].Matchday)
	assert.Equal(t, 1, view.MobileApps.UniqueApps)

	view, err = service.Dashboard(models.Selection{Property: " serie a "}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Rows)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "u3", view.Records[0].URL)
	assert.Equal(t, 100.0, view.Summary.RemovalPercentage)
}

func TestService_Telegram(t *testing.T) {
	service, _, _ := loaded(t, nil)

	view, err := service.Telegram(models.Selection{Property: "All"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Rows)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, 200.0, view.Summary.TotalViews)
	assert.Equal(t, 1, view.Summary.ChannelsSuspended)
	assert.Equal(t, 1500.0, view.Summary.TotalSubscribers)
	require.NotEmpty(t, view.DomainsBySubscribers)
	assert.Equal(t, "t.me/a", view.DomainsBySubscribers[0].Domain)

	view, err = service.Telegram(models.Selection{Fixtures: []string{"OL v LOSC"}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Rows)
}

func TestService_BuildReportPageOrder(t *testing.T) {
	service, _, _ := loaded(t, nil)

	report, err := service.BuildReport(models.Selection{})
	require.NoError(t, err)

	var titles []string
	for _, p := range report.Pages {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{
		PageSheetTotals,
		PageTopFixtures,
		PageMonthlyTotals,
		PageSocialPlatforms,
		PageMatchdayTotals,
		PageTelegramTopFixtures,
		PageTelegramProperties,
		PageTelegramSubscribers,
		PageTelegramMonthly,
		PageTopFixturesByViews,
		PageTelegramChannelTypes,
	}, titles)

	assert.Equal(t, PeriodOnDemand, report.Period)
	assert.Equal(t, service.Current().ID, report.DatasetID)
	assert.Equal(t, []string{"2024-01", "6", "3"}, report.Pages[2].Rows[0])
}

func TestService_SendReport(t *testing.T) {
	service, mockStorage, mockNotifications := loaded(t, nil)
	mockNotifications.On("SendReport", mock.Anything, mock.MatchedBy(func(d *models.Delivery) bool {
		return d.Kind == "report" &&
			d.Report != nil && len(d.Report.Pages) == 11 &&
			d.Attachment != nil && strings.HasPrefix(d.Attachment.Filename, "exposure_report_") &&
			len(d.Attachment.Content) > 0
	})).Return(nil)

	report, err := service.SendReport(context.Background(), models.Selection{})
	require.NoError(t, err)
	require.NotNil(t, report)

	mockNotifications.AssertExpectations(t)
	mockStorage.AssertCalled(t, "Store", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "reports/exposure_report_")
	}), mock.Anything)
	assert.Contains(t, service.GetMetrics(), `"reports_sent": 1`)
}

func TestService_SendReportFailure(t *testing.T) {
	service, _, mockNotifications := loaded(t, nil)
	mockNotifications.On("SendReport", mock.Anything, mock.Anything).Return(errors.New("relay: status 500"))

	_, err := service.SendReport(context.Background(), models.Selection{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, service.GetMetrics(), `"reports_sent": 0`)
}

func TestService_RunScheduledReportWindow(t *testing.T) {
	service, _, mockNotifications := loaded(t, &config.Config{ReportWindow: 7 * 24 * time.Hour})
	now := time.Date(2024, 1, 22, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	var delivered *models.Delivery
	mockNotifications.On("SendReport", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { delivered = args.Get(1).(*models.Delivery) }).
		Return(nil)

	require.NoError(t, service.RunScheduledReport(context.Background()))
	require.NotNil(t, delivered)

	report := delivered.Report
	assert.Equal(t, "January 2024", report.Period)
	assert.Equal(t, "Exposure Score Report - January 2024", delivered.Subject)
	assert.True(t, report.Selection.Start.Equal(now.Add(-7*24*time.Hour)))
	assert.True(t, report.Selection.End.Equal(now))
	// u2, t1, t2, s1 and m1 fall inside 2024-01-15 09:00 .. 2024-01-22 09:00
	assert.Equal(t, 5, report.Summary.TotalInfringements)
}

func TestService_SendExport(t *testing.T) {
	service, _, mockNotifications := loaded(t, nil)
	mockNotifications.On("SendReport", mock.Anything, mock.MatchedBy(func(d *models.Delivery) bool {
		return d.Kind == "export" && d.Report == nil &&
			d.Attachment != nil && strings.HasPrefix(d.Attachment.Filename, "filtered_data_")
	})).Return(nil)

	events, unsubscribe := service.Subscribe(1)
	defer unsubscribe()

	require.NoError(t, service.SendExport(context.Background(), models.Selection{Property: "Ligue 1"}))
	mockNotifications.AssertExpectations(t)

	e := <-events
	assert.Equal(t, EventExportSent, e.Type)
	assert.Empty(t, e.Error)
}

func TestService_SubscribeDropsWhenFull(t *testing.T) {
	service, _, _ := newTestService(t, nil)
	events, unsubscribe := service.Subscribe(1)

	service.publish(Event{Type: "a"})
	service.publish(Event{Type: "b"})

	assert.Equal(t, "a", (<-events).Type)
	unsubscribe()
	unsubscribe()

	_, open := <-events
	assert.False(t, open)
}

func TestSnapshotStore_ReadersKeepTheirSnapshot(t *testing.T) {
	var store SnapshotStore
	assert.Nil(t, store.Load())

	first := models.NewDataset("first", "", time.Now(), []models.Record{{URL: "a"}})
	second := models.NewDataset("second", "", time.Now(), nil)

	assert.Nil(t, store.Swap(first))
	held := store.Load()
	assert.Same(t, first, store.Swap(second))

	assert.Equal(t, 1, held.Len())
	assert.Equal(t, "second", store.Load().ID)
}
