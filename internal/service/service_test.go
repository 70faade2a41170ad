package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/repository/memory"
	"alcyxob/plants-manager/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testEnv wires every service against the in-memory store and a settable clock.
type testEnv struct {
	now   time.Time
	store repository.Store
	files *storage.MemoryStorage

	locations     LocationService
	plants        PlantService
	care          CareService
	treatments    TreatmentService
	photos        PhotoService
	growth        GrowthLogService
	notifications NotificationService
	dashboard     DashboardService
	timeline      TimelineService
}

func newTestEnv(t *testing.T, today string) *testEnv {
	t.Helper()
	env := &testEnv{now: mustDate(t, today).Add(9 * time.Hour)}
	clock := func() time.Time { return env.now }

	env.store = memory.NewStoreWithClock(clock)
	env.files = storage.NewMemoryStorage()
	env.locations = NewLocationService(env.store.Locations, env.store.Plants)
	env.plants = NewPlantService(env.store, env.files)
	env.care = NewCareService(env.store.Plants, env.store.CareSchedules, env.store.CareLogs, clock)
	env.treatments = NewTreatmentService(env.store.Plants, env.store.Treatments, clock)
	env.photos = NewPhotoService(env.store.Plants, env.store.Photos, env.store.GrowthLogs, env.files, PhotoOptions{
		MaxBytes:      1 << 20,
		ThumbnailSize: 300,
		URLExpiry:     time.Minute,
	})
	env.growth = NewGrowthLogService(env.store.Plants, env.store.Photos, env.store.GrowthLogs, clock)
	env.notifications = NewNotificationService(env.care, env.store.Plants, env.store.Notifications, clock)
	env.dashboard = NewDashboardService(env.care, env.store.Plants, env.store.Treatments, clock)
	env.timeline = NewTimelineService(env.store)
	return env
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func (env *testEnv) plant(t *testing.T, name string) *domain.Plant {
	t.Helper()
	p, err := env.plants.CreatePlant(context.Background(), PlantInput{
		Name:     name,
		Type:     domain.PlantIndoor,
		Category: domain.CategoryFlower,
	})
	if err != nil {
		t.Fatalf("create plant: %v", err)
	}
	return p
}

func (env *testEnv) schedule(t *testing.T, kind domain.CareKind, plantID primitive.ObjectID, every int, start string) *domain.CareSchedule {
	t.Helper()
	s, err := env.care.CreateSchedule(context.Background(), kind, plantID, ScheduleInput{
		FrequencyDays: every,
		StartDate:     mustDate(t, start),
	})
	if err != nil {
		t.Fatalf("create %s schedule: %v", kind, err)
	}
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCreateScheduleValidation(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	p := env.plant(t, "Fern")
	end := mustDate(t, "2023-12-01")

	tests := []struct {
		name string
		kind domain.CareKind
		in   ScheduleInput
	}{
		{"zero frequency", domain.CareWatering, ScheduleInput{FrequencyDays: 0}},
		{"negative frequency", domain.CareFertilization, ScheduleInput{FrequencyDays: -3}},
		{"end before start", domain.CareWatering, ScheduleInput{FrequencyDays: 7, EndDate: &end}},
		{"unknown kind", domain.CareKind("misting"), ScheduleInput{FrequencyDays: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.care.CreateSchedule(context.Background(), tt.kind, p.ID, tt.in)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}

	if _, err := env.care.CreateSchedule(context.Background(), domain.CareWatering, primitive.NewObjectID(), ScheduleInput{FrequencyDays: 7}); !errors.Is(err, ErrPlantNotFound) {
		t.Fatalf("expected ErrPlantNotFound, got %v", err)
	}
}

func TestCreateLogRejectsForeignSchedule(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-01-01")
	a, b := env.plant(t, "A"), env.plant(t, "B")
	sa := env.schedule(t, domain.CareWatering, a.ID, 7, "2024-01-01")

	if _, err := env.care.CreateLog(ctx, domain.CareWatering, b.ID, LogInput{ScheduleID: &sa.ID}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if _, err := env.care.CreateLog(ctx, domain.CareFertilization, a.ID, LogInput{ScheduleID: &sa.ID}); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound for a watering schedule logged as fertilization, got %v", err)
	}
}

func TestLoggingMovesNextDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-01-08")
	p := env.plant(t, "Basil")
	s := env.schedule(t, domain.CareWatering, p.ID, 7, "2024-01-01")

	due, err := env.care.DueToday(ctx, domain.CareWatering, 0)
	if err != nil || len(due) != 1 {
		t.Fatalf("expected one due schedule, got %v (%v)", due, err)
	}

	if _, err := env.care.CreateLog(ctx, domain.CareWatering, p.ID, LogInput{ScheduleID: &s.ID, OccurredAt: env.now}); err != nil {
		t.Fatalf("create log: %v", err)
	}
	got, err := env.care.GetSchedule(ctx, domain.CareWatering, s.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if got.NextDate == nil || domain.FormatDate(*got.NextDate) != "2024-01-15" {
		t.Fatalf("expected next date 2024-01-15, got %v", got.NextDate)
	}
	if due, _ := env.care.DueToday(ctx, domain.CareWatering, 0); len(due) != 0 {
		t.Fatalf("expected nothing due after watering, got %d", len(due))
	}
}

func TestDeleteLocationRejectedWhilePlantsRemain(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-01-01")

	loc, err := env.locations.CreateLocation(ctx, LocationInput{Name: "Balcony", Type: domain.LocationOutdoor})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	p, err := env.plants.CreatePlant(ctx, PlantInput{Name: "Olive", Type: domain.PlantOutdoor, Category: domain.CategoryTree, LocationID: &loc.ID})
	if err != nil {
		t.Fatalf("create plant: %v", err)
	}

	summary, err := env.locations.GetLocation(ctx, loc.ID)
	if err != nil || summary.PlantsCount != 1 {
		t.Fatalf("expected plants_count 1, got %+v (%v)", summary, err)
	}
	err = env.locations.DeleteLocation(ctx, loc.ID)
	if !errors.Is(err, ErrLocationInUse) || !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrLocationInUse, got %v", err)
	}

	if _, err := env.plants.UpdatePlant(ctx, p.ID, PlantUpdate{ClearLocation: true}); err != nil {
		t.Fatalf("detach plant: %v", err)
	}
	if err := env.locations.DeleteLocation(ctx, loc.ID); err != nil {
		t.Fatalf("delete empty location: %v", err)
	}
	if _, err := env.locations.GetLocation(ctx, loc.ID); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestDeletePlantCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-03-01")
	p := env.plant(t, "Monstera")
	keep := env.plant(t, "Cactus")

	env.schedule(t, domain.CareWatering, p.ID, 7, "2024-03-01")
	env.schedule(t, domain.CareFertilization, keep.ID, 14, "2024-03-01")
	if _, err := env.care.CreateLog(ctx, domain.CareWatering, p.ID, LogInput{}); err != nil {
		t.Fatalf("create log: %v", err)
	}
	tr, err := env.treatments.CreateTreatment(ctx, p.ID, TreatmentInput{IssueType: domain.IssuePest, IssueName: "Aphids", TreatmentType: domain.TreatmentOrganic})
	if err != nil {
		t.Fatalf("create treatment: %v", err)
	}
	if _, err := env.treatments.CreateApplication(ctx, tr.ID, ApplicationInput{Notes: "neem"}); err != nil {
		t.Fatalf("create application: %v", err)
	}
	photo, err := env.photos.UploadPhoto(ctx, p.ID, PhotoUpload{Filename: "leaf.png", Body: bytes.NewReader(pngBytes(t, 40, 40))})
	if err != nil {
		t.Fatalf("upload photo: %v", err)
	}
	if _, err := env.growth.CreateGrowthLog(ctx, p.ID, GrowthLogInput{PhotoID: &photo.ID, HealthStatus: domain.HealthGood}); err != nil {
		t.Fatalf("create growth log: %v", err)
	}

	if err := env.plants.DeletePlant(ctx, p.ID); err != nil {
		t.Fatalf("delete plant: %v", err)
	}

	if _, err := env.plants.GetPlant(ctx, p.ID); !errors.Is(err, ErrPlantNotFound) {
		t.Fatalf("expected ErrPlantNotFound, got %v", err)
	}
	if env.files.Len() != 0 {
		t.Fatalf("expected stored objects removed, %d left", env.files.Len())
	}
	if _, err := env.treatments.GetTreatment(ctx, tr.ID); !errors.Is(err, ErrTreatmentNotFound) {
		t.Fatalf("expected treatment removed, got %v", err)
	}
	if apps, _ := env.store.Treatments.ListApplicationsByPlant(ctx, p.ID); len(apps) != 0 {
		t.Fatalf("expected applications removed, got %d", len(apps))
	}
	if logs, _ := env.store.CareLogs.ListByPlant(ctx, p.ID, "", 0); len(logs) != 0 {
		t.Fatalf("expected care logs removed, got %d", len(logs))
	}
	if gl, _ := env.store.GrowthLogs.ListByPlant(ctx, p.ID); len(gl) != 0 {
		t.Fatalf("expected growth logs removed, got %d", len(gl))
	}
	if left, _ := env.store.CareSchedules.ListByPlant(ctx, keep.ID, domain.CareFertilization, false); len(left) != 1 {
		t.Fatalf("expected other plant's schedule kept, got %d", len(left))
	}
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-03-01")
	p := env.plant(t, "Orchid")

	photo, err := env.photos.UploadPhoto(ctx, p.ID, PhotoUpload{
		Filename: "Bloom.PNG",
		Body:     bytes.NewReader(pngBytes(t, 600, 400)),
		Caption:  "first bloom",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if photo.Width == nil || photo.Height == nil || *photo.Width != 600 || *photo.Height != 400 {
		t.Fatalf("unexpected dimensions %v x %v", photo.Width, photo.Height)
	}
	if photo.MimeType != "image/png" || photo.OriginalFilename != "Bloom.PNG" || photo.Caption != "first bloom" {
		t.Fatalf("unexpected metadata %+v", photo)
	}
	if _, ct, ok := env.files.Object(photo.FilePath); !ok || ct != "image/png" {
		t.Fatalf("original not stored under %s (%s)", photo.FilePath, ct)
	}
	if _, ct, ok := env.files.Object(photo.ThumbnailPath); !ok || ct != "image/jpeg" {
		t.Fatalf("thumbnail not stored under %s (%s)", photo.ThumbnailPath, ct)
	}

	url, err := env.photos.PhotoURL(ctx, photo.ID, true)
	if err != nil || url == "" {
		t.Fatalf("thumbnail url: %q (%v)", url, err)
	}
}

func TestUploadPhotoRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-03-01")
	p := env.plant(t, "Orchid")

	tests := []struct {
		name     string
		filename string
		body     []byte
	}{
		{"extension", "notes.txt", []byte("hello")},
		{"not an image", "fake.jpg", []byte("definitely not a jpeg")},
		{"too large", "huge.png", make([]byte, 2<<20)},
		{"too many pixels", "bomb.gif", []byte("GIF89a\xff\xff\xff\xff\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.photos.UploadPhoto(ctx, p.ID, PhotoUpload{Filename: tt.filename, Body: bytes.NewReader(tt.body)})
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
	if env.files.Len() != 0 {
		t.Fatalf("rejected uploads must not store objects, found %d", env.files.Len())
	}
}

func TestDeletePhotoDetachesGrowthLogs(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-03-01")
	p := env.plant(t, "Ficus")
	other := env.plant(t, "Aloe")

	photo, err := env.photos.UploadPhoto(ctx, p.ID, PhotoUpload{Filename: "f.png", Body: bytes.NewReader(pngBytes(t, 10, 10))})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := env.growth.CreateGrowthLog(ctx, other.ID, GrowthLogInput{PhotoID: &photo.ID}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation failure for another plant's photo, got %v", err)
	}
	bad := domain.HealthStatus("thriving")
	if _, err := env.growth.CreateGrowthLog(ctx, p.ID, GrowthLogInput{HealthStatus: bad}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation failure for health status, got %v", err)
	}

	g, err := env.growth.CreateGrowthLog(ctx, p.ID, GrowthLogInput{PhotoID: &photo.ID, HealthStatus: domain.HealthExcellent})
	if err != nil {
		t.Fatalf("create growth log: %v", err)
	}
	if err := env.photos.DeletePhoto(ctx, photo.ID); err != nil {
		t.Fatalf("delete photo: %v", err)
	}
	got, err := env.growth.GetGrowthLog(ctx, g.ID)
	if err != nil {
		t.Fatalf("get growth log: %v", err)
	}
	if got.PhotoID != nil {
		t.Fatalf("expected photo reference cleared, got %v", got.PhotoID)
	}
	if env.files.Len() != 0 {
		t.Fatalf("expected objects removed, %d left", env.files.Len())
	}
}

func TestPlantTimeline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-03-12")
	p := env.plant(t, "Rose")

	if _, err := env.care.CreateLog(ctx, domain.CareWatering, p.ID, LogInput{OccurredAt: mustDate(t, "2024-03-01").Add(8 * time.Hour)}); err != nil {
		t.Fatalf("create log: %v", err)
	}
	end := mustDate(t, "2024-03-10")
	tr, err := env.treatments.CreateTreatment(ctx, p.ID, TreatmentInput{
		IssueType:     domain.IssueDisease,
		IssueName:     "Mildew",
		TreatmentType: domain.TreatmentChemical,
		StartDate:     mustDate(t, "2024-03-02"),
		EndDate:       &end,
	})
	if err != nil {
		t.Fatalf("create treatment: %v", err)
	}

	got, err := env.timeline.PlantTimeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	want := []string{tr.ID.Hex() + "_end", tr.ID.Hex() + "_start"}
	if len(got) != 3 || got[0].ID != want[0] || got[1].ID != want[1] || got[2].Kind != "watering" {
		t.Fatalf("unexpected timeline %+v", got)
	}

	if _, err := env.timeline.PlantTimeline(ctx, primitive.NewObjectID()); !errors.Is(err, ErrPlantNotFound) {
		t.Fatalf("expected ErrPlantNotFound, got %v", err)
	}
}

func TestCreatePlantValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-01-01")

	tests := []struct {
		name string
		in   PlantInput
	}{
		{"blank name", PlantInput{Name: "  ", Type: domain.PlantIndoor, Category: domain.CategoryFlower}},
		{"unknown type", PlantInput{Name: "Fern", Type: "attic", Category: domain.CategoryFlower}},
		{"missing type", PlantInput{Name: "Fern", Category: domain.CategoryFlower}},
		{"unknown category", PlantInput{Name: "Fern", Type: domain.PlantOutdoor, Category: "shrub"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.plants.CreatePlant(ctx, tt.in); !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
	if n, err := env.store.Plants.Count(ctx); err != nil || n != 0 {
		t.Fatalf("rejected plants must not be stored, count %d (%v)", n, err)
	}
}

func TestCreateTreatmentValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-01-10")
	p := env.plant(t, "Rose")
	start := mustDate(t, "2024-01-10")
	before := mustDate(t, "2024-01-09")

	valid := func() TreatmentInput {
		return TreatmentInput{
			IssueType:     domain.IssuePest,
			IssueName:     "Aphids",
			TreatmentType: domain.TreatmentOrganic,
			StartDate:     start,
		}
	}
	tests := []struct {
		name   string
		mutate func(*TreatmentInput)
	}{
		{"unknown issue type", func(in *TreatmentInput) { in.IssueType = "weeds" }},
		{"missing issue type", func(in *TreatmentInput) { in.IssueType = "" }},
		{"blank issue name", func(in *TreatmentInput) { in.IssueName = " " }},
		{"unknown treatment type", func(in *TreatmentInput) { in.TreatmentType = "magic" }},
		{"unknown status", func(in *TreatmentInput) { in.Status = "paused" }},
		{"end before start", func(in *TreatmentInput) { in.EndDate = &before }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			if _, err := env.treatments.CreateTreatment(ctx, p.ID, in); !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
	stored, err := env.store.Treatments.ListByPlant(ctx, p.ID, "")
	if err != nil || len(stored) != 0 {
		t.Fatalf("rejected treatments must not be stored, got %d (%v)", len(stored), err)
	}

	same := start
	in := valid()
	in.EndDate = &same
	tr, err := env.treatments.CreateTreatment(ctx, p.ID, in)
	if err != nil {
		t.Fatalf("a one-day treatment is valid: %v", err)
	}
	if tr.Status != domain.TreatmentActive {
		t.Fatalf("expected default status active, got %q", tr.Status)
	}
}

func TestTimestampsStoredInUTC(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "2024-03-01")
	p := env.plant(t, "Mint")
	s := env.schedule(t, domain.CareWatering, p.ID, 1, "2024-02-01")

	// 23:30 on March 1st in New York is already March 2nd in UTC.
	late := time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	l, err := env.care.CreateLog(ctx, domain.CareWatering, p.ID, LogInput{ScheduleID: &s.ID, OccurredAt: late})
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	if l.OccurredAt.Location() != time.UTC || !l.OccurredAt.Equal(late) {
		t.Fatalf("expected the same instant in UTC, got %v", l.OccurredAt)
	}
	got, err := env.care.GetSchedule(ctx, domain.CareWatering, s.ID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if got.NextDate == nil || domain.FormatDate(*got.NextDate) != "2024-03-03" {
		t.Fatalf("expected next date 2024-03-03, got %v", got.NextDate)
	}

	g, err := env.growth.CreateGrowthLog(ctx, p.ID, GrowthLogInput{MeasuredAt: late})
	if err != nil {
		t.Fatalf("create growth log: %v", err)
	}
	if g.MeasuredAt.Location() != time.UTC {
		t.Fatalf("growth log kept offset %v", g.MeasuredAt)
	}

	tr, err := env.treatments.CreateTreatment(ctx, p.ID, TreatmentInput{
		IssueType: domain.IssueDisease, IssueName: "Rust", TreatmentType: domain.TreatmentManual,
	})
	if err != nil {
		t.Fatalf("create treatment: %v", err)
	}
	app, err := env.treatments.CreateApplication(ctx, tr.ID, ApplicationInput{AppliedAt: late})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if app.AppliedAt.Location() != time.UTC {
		t.Fatalf("application kept offset %v", app.AppliedAt)
	}
}
