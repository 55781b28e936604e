package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/report"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func upload(t *testing.T, target string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "test.bank")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testBank(t *testing.T) []byte {
	t.Helper()
	b, err := bank.Create(devices.NewE3X(), "API")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := b.AddPreset("Lead"); err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}
	pcm := &bank.PCM{SampleRate: 44100, Channels: 1, Frames: 10, Data: make([]int16, 10)}
	z := bank.DefaultZone(b.Format(), 0, 60, 0, 127)
	if _, _, err := b.AddSampleZone(0, bank.KeyRange{Low: 21, High: 108}, bank.Primary, "Saw", pcm, z); err != nil {
		t.Fatalf("AddSampleZone() error = %v", err)
	}
	return b.Bytes()
}

func TestHealth(t *testing.T) {
	r := NewRouter(Options{})
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestListDevices(t *testing.T) {
	rec := serve(NewRouter(Options{}), httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Devices []struct {
			ID string `json:"id"`
		} `json:"devices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(body.Devices) != 3 || body.Devices[0].ID != "e3" {
		t.Errorf("devices = %+v", body.Devices)
	}
}

func TestNewBank(t *testing.T) {
	tests := []struct {
		name   string
		device string
		status int
	}{
		{"esi", "esi", http.StatusOK},
		{"unknown", "e9", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"device": {tt.device}, "name": {"FRESH"}}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/banks/new", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := serve(NewRouter(Options{}), req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			b, err := bank.New(rec.Body.Bytes())
			if err != nil {
				t.Fatalf("bank.New() error = %v", err)
			}
			if b.Format() != bank.FormatESI || b.Header().BankName() != "FRESH" {
				t.Errorf("bank = %v %q", b.Format(), b.Header().BankName())
			}
		})
	}
}

func TestInfo(t *testing.T) {
	rec := serve(NewRouter(Options{}), upload(t, "/api/v1/banks/info", testBank(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var sum report.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(sum.Presets) != 1 || len(sum.Samples) != 1 || sum.Presets[0].NoteZones != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestBankErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"no file", httptest.NewRequest(http.MethodPost, "/api/v1/banks/info", nil), http.StatusBadRequest},
		{"not a bank", upload(t, "/api/v1/banks/info", []byte("garbage garbage garbage garbage garbage garbage garbage garbage garbage garbage")), http.StatusUnprocessableEntity},
		{"bad preset", upload(t, "/api/v1/banks/presets?preset=7", testBank(t)), http.StatusUnprocessableEntity},
		{"bad query", upload(t, "/api/v1/banks/presets?preset=x", testBank(t)), http.StatusBadRequest},
		{"bad sample", upload(t, "/api/v1/banks/samples?sample=3", testBank(t)), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewRouter(Options{}), tt.req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestPresetZonesKeymapSample(t *testing.T) {
	r := NewRouter(Options{})
	data := testBank(t)

	rec := serve(r, upload(t, "/api/v1/banks/presets?preset=0", data))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"sample_name":"Saw"`) {
		t.Errorf("presets = %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, upload(t, "/api/v1/banks/keymap?preset=0", data))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("MThd")) {
		t.Errorf("keymap = %d, %d bytes", rec.Code, rec.Body.Len())
	}

	rec = serve(r, upload(t, "/api/v1/banks/samples?sample=0", data))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")) {
		t.Errorf("sample = %d, %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestRateLimit(t *testing.T) {
	r := NewRouter(Options{Rate: 0.001, Burst: 1})
	first := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Errorf("statuses = %d, %d, want 200, 429", first.Code, second.Code)
	}
}
