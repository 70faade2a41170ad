package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/plants-manager/internal/repository/memory"
	"alcyxob/plants-manager/internal/service"
	"alcyxob/plants-manager/internal/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, today time.Time, jobSecret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return today }

	store := memory.NewStoreWithClock(clock)
	files := storage.NewMemoryStorage()
	care := service.NewCareService(store.Plants, store.CareSchedules, store.CareLogs, clock)
	notifications := service.NewNotificationService(care, store.Plants, store.Notifications, clock)
	services := Services{
		Locations:  service.NewLocationService(store.Locations, store.Plants),
		Plants:     service.NewPlantService(store, files),
		Care:       care,
		Treatments: service.NewTreatmentService(store.Plants, store.Treatments, clock),
		Photos: service.NewPhotoService(store.Plants, store.Photos, store.GrowthLogs, files, service.PhotoOptions{
			MaxBytes: 1 << 20, ThumbnailSize: 300, URLExpiry: time.Minute,
		}),
		GrowthLogs:    service.NewGrowthLogService(store.Plants, store.Photos, store.GrowthLogs, clock),
		Notifications: notifications,
		Dashboard:     service.NewDashboardService(care, store.Plants, store.Treatments, clock),
		Timeline:      service.NewTimelineService(store),
	}

	router := gin.New()
	SetupRoutes(router, services, JobRoutesConfig{Secret: jobSecret, RetentionDays: 30, Now: clock})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func createPlant(t *testing.T, router *gin.Engine, body gin.H) PlantResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/plants", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create plant: %d %s", w.Code, w.Body.String())
	}
	var p PlantResponse
	decode(t, w, &p)
	return p
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d.Add(10 * time.Hour)
}

func TestLocationDeleteRejectedWhileInUse(t *testing.T) {
	router := newTestRouter(t, day("2024-01-01"), "")

	w := doJSON(t, router, http.MethodPost, "/api/v1/locations", gin.H{"name": "Greenhouse", "type": "outdoor"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create location: %d %s", w.Code, w.Body.String())
	}
	var loc LocationResponse
	decode(t, w, &loc)

	p := createPlant(t, router, gin.H{"name": "Tomato", "type": "outdoor", "category": "other", "locationId": loc.ID})
	if p.LocationID == nil || *p.LocationID != loc.ID {
		t.Fatalf("plant not placed in location: %+v", p)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/locations", nil, nil)
	var list []LocationResponse
	decode(t, w, &list)
	if len(list) != 1 || list[0].PlantsCount == nil || *list[0].PlantsCount != 1 {
		t.Fatalf("unexpected locations %s", w.Body.String())
	}

	if w = doJSON(t, router, http.MethodDelete, "/api/v1/locations/"+loc.ID, nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting a location in use, got %d", w.Code)
	}
	if w = doJSON(t, router, http.MethodDelete, "/api/v1/plants/"+p.ID, nil, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete plant: %d %s", w.Code, w.Body.String())
	}
	if w = doJSON(t, router, http.MethodDelete, "/api/v1/locations/"+loc.ID, nil, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete empty location: %d %s", w.Code, w.Body.String())
	}
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t, day("2024-01-01"), "")
	missing := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"malformed id", http.MethodGet, "/api/v1/plants/not-an-id", nil, http.StatusBadRequest},
		{"unknown plant", http.MethodGet, "/api/v1/plants/" + missing, nil, http.StatusNotFound},
		{"binding failure", http.MethodPost, "/api/v1/plants", gin.H{"name": "Fern", "type": "attic", "category": "other"}, http.StatusBadRequest},
		{"unknown location", http.MethodPost, "/api/v1/plants", gin.H{"name": "Fern", "type": "indoor", "category": "other", "locationId": missing}, http.StatusNotFound},
		{"bad date", http.MethodPost, "/api/v1/plants", gin.H{"name": "Fern", "type": "indoor", "category": "other", "acquisitionDate": "yesterday"}, http.StatusBadRequest},
		{"short search", http.MethodGet, "/api/v1/plants/search?q=a", nil, http.StatusBadRequest},
		{"limit too large", http.MethodGet, "/api/v1/plants?limit=5000", nil, http.StatusBadRequest},
		{"schedule for unknown plant", http.MethodPost, "/api/v1/watering/plants/" + missing + "/schedules", gin.H{"frequencyDays": 7}, http.StatusNotFound},
		{"zero frequency", http.MethodPost, "/api/v1/watering/plants/" + missing + "/schedules", gin.H{"frequencyDays": 0}, http.StatusBadRequest},
		{"calendar without range", http.MethodGet, "/api/v1/dashboard/calendar", nil, http.StatusBadRequest},
		{"reversed calendar", http.MethodGet, "/api/v1/dashboard/calendar?start_date=2024-03-05&end_date=2024-03-01", nil, http.StatusBadRequest},
		{"jobs disabled", http.MethodPost, "/api/v1/jobs/notification-sweep", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, tt.method, tt.path, tt.body, nil)
			if w.Code != tt.want {
				t.Fatalf("got %d (%s), want %d", w.Code, w.Body.String(), tt.want)
			}
		})
	}
}

func TestWateringDueAndTimeline(t *testing.T) {
	router := newTestRouter(t, day("2024-01-08"), "")
	p := createPlant(t, router, gin.H{"name": "Rose", "type": "indoor", "category": "flower"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/watering/plants/"+p.ID+"/schedules",
		gin.H{"frequencyDays": 7, "startDate": "2024-01-01", "amount": "200ml"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create schedule: %d %s", w.Code, w.Body.String())
	}
	var sched ScheduleResponse
	decode(t, w, &sched)

	w = doJSON(t, router, http.MethodGet, "/api/v1/watering/due", nil, nil)
	var due []ScheduleResponse
	decode(t, w, &due)
	if len(due) != 1 || due[0].NextDate == nil || *due[0].NextDate != "2024-01-08" {
		t.Fatalf("unexpected due list %s", w.Body.String())
	}
	w = doJSON(t, router, http.MethodGet, "/api/v1/fertilization/due", nil, nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty fertilization list, got %d %s", w.Code, w.Body.String())
	}
	if w = doJSON(t, router, http.MethodGet, "/api/v1/fertilization/schedules/"+sched.ID, nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("watering schedule must not resolve as fertilization, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/watering/plants/"+p.ID+"/logs",
		gin.H{"scheduleId": sched.ID, "occurredAt": "2024-01-08T07:30:00Z"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create log: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodGet, "/api/v1/watering/schedules/"+sched.ID+"/next-date", nil, nil)
	var withNext ScheduleResponse
	decode(t, w, &withNext)
	if withNext.NextDate == nil || *withNext.NextDate != "2024-01-15" {
		t.Fatalf("unexpected next date %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/plants/"+p.ID+"/timeline", nil, nil)
	var timeline []struct {
		Type  string `json:"type"`
		Title string `json:"title"`
	}
	decode(t, w, &timeline)
	if len(timeline) != 1 || timeline[0].Type != "watering" || timeline[0].Title != "Watered" {
		t.Fatalf("unexpected timeline %s", w.Body.String())
	}
}

func TestJobRoutesRequireSchedulerToken(t *testing.T) {
	router := newTestRouter(t, day("2024-01-08"), testSecret)
	p := createPlant(t, router, gin.H{"name": "Rose", "type": "indoor", "category": "flower"})
	doJSON(t, router, http.MethodPost, "/api/v1/watering/plants/"+p.ID+"/schedules", gin.H{"frequencyDays": 7, "startDate": "2024-01-01"}, nil)

	valid, err := SignJobToken(testSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, _ := SignJobToken(testSecret, time.Hour, time.Now().Add(-2*time.Hour))
	forged, _ := SignJobToken("other-secret", time.Hour, time.Now())

	for name, header := range map[string]string{
		"missing": "",
		"scheme":  "Token " + valid,
		"expired": "Bearer " + expired,
		"forged":  "Bearer " + forged,
	} {
		h := http.Header{}
		if header != "" {
			h.Set("Authorization", header)
		}
		if w := doJSON(t, router, http.MethodPost, "/api/v1/jobs/notification-sweep", nil, h); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: got %d, want 401", name, w.Code)
		}
	}

	auth := http.Header{}
	auth.Set("Authorization", "Bearer "+valid)
	for _, want := range []float64{1, 0} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/jobs/notification-sweep?date=2024-01-08", nil, auth)
		var resp map[string]float64
		decode(t, w, &resp)
		if w.Code != http.StatusOK || resp["created"] != want {
			t.Fatalf("sweep: %d %s, want created=%v", w.Code, w.Body.String(), want)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/notifications/stats", nil, nil)
	var stats map[string]float64
	decode(t, w, &stats)
	if stats["total"] != 1 || stats["unread"] != 1 {
		t.Fatalf("unexpected stats %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/jobs/notification-cleanup?retention_days=7", nil, auth)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"deleted":0`) {
		t.Fatalf("cleanup: %d %s", w.Code, w.Body.String())
	}
}

func TestPhotoUploadAndDownloadRedirect(t *testing.T) {
	router := newTestRouter(t, day("2024-03-01"), "")
	p := createPlant(t, router, gin.H{"name": "Orchid", "type": "indoor", "category": "flower"})

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "orchid.png")
	fw.Write(img.Bytes())
	mw.WriteField("caption", "new leaf")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos/plants/"+p.ID+"/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	var photo PhotoResponse
	decode(t, w, &photo)
	if photo.Width == nil || *photo.Width != 64 || photo.Caption != "new leaf" || photo.ThumbnailURL == "" {
		t.Fatalf("unexpected photo %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, photo.ThumbnailURL, nil, nil)
	if w.Code != http.StatusTemporaryRedirect || !strings.HasPrefix(w.Header().Get("Location"), "memory://") {
		t.Fatalf("expected redirect to stored object, got %d %q", w.Code, w.Header().Get("Location"))
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/photos/plants/"+p.ID+"/photos", nil, nil)
	var list []PhotoResponse
	decode(t, w, &list)
	if len(list) != 1 || list[0].ID != photo.ID {
		t.Fatalf("unexpected photo list %s", w.Body.String())
	}
}
