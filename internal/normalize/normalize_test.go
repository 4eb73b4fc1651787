package normalize

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HackrsValv/design-critic/internal/critique"
	"github.com/HackrsValv/design-critic/internal/testutil"
)

type recordingRenderer struct {
	gotHTML   string
	gotWidth  int
	gotHeight int
	payload   *critique.ImagePayload
	err       error
}

func (r *recordingRenderer) Render(_ context.Context, html string, width, height int) (*critique.ImagePayload, error) {
	r.gotHTML = html
	r.gotWidth = width
	r.gotHeight = height
	if r.err != nil {
		return nil, r.err
	}
	return r.payload, nil
}

func newTestNormalizer(t *testing.T, r Renderer, client *http.Client) *Normalizer {
	t.Helper()
	return New(DefaultConfig(), r, client, testutil.NewDummyLogger())
}

func TestNormalizeHTMLViewport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		designType critique.DesignType
		wantWidth  int
	}{
		{critique.DesignEmail, 600},
		{critique.DesignLandingPage, 1280},
		{critique.DesignDashboard, 1280},
		{critique.DesignMobileApp, 1280},
	}

	for _, tt := range tests {
		t.Run(string(tt.designType), func(t *testing.T) {
			t.Parallel()
			renderer := &recordingRenderer{payload: &critique.ImagePayload{Data: []byte{1}, MIMEType: "image/png"}}
			n := newTestNormalizer(t, renderer, nil)

			req := &critique.CritiqueRequest{HTML: "<h1>hi</h1>", DesignType: tt.designType}
			if _, err := n.Normalize(context.Background(), req); err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if renderer.gotWidth != tt.wantWidth {
				t.Errorf("render width = %d, want %d", renderer.gotWidth, tt.wantWidth)
			}
			if renderer.gotHTML != "<h1>hi</h1>" {
				t.Errorf("render html = %q", renderer.gotHTML)
			}
		})
	}
}

func TestNormalizeImageURL(t *testing.T) {
	t.Parallel()

	png, err := base64.StdEncoding.DecodeString(testutil.TinyPNGBase64)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		case "/not-image":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n := newTestNormalizer(t, nil, srv.Client())

	t.Run("success", func(t *testing.T) {
		img, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageURL: srv.URL + "/good.png"})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if img.MIMEType != "image/png" || len(img.Data) != len(png) {
			t.Errorf("payload = %s/%d bytes", img.MIMEType, len(img.Data))
		}
	})

	t.Run("404", func(t *testing.T) {
		_, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageURL: srv.URL + "/missing.png"})
		if critique.KindOf(err) != critique.KindFetch {
			t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindFetch)
		}
	})

	t.Run("non-image content type", func(t *testing.T) {
		_, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageURL: srv.URL + "/not-image"})
		if critique.KindOf(err) != critique.KindFetch {
			t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindFetch)
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		unreachable := newTestNormalizer(t, nil, nil)
		_, err := unreachable.Normalize(context.Background(), &critique.CritiqueRequest{ImageURL: "http://127.0.0.1:1/image.png"})
		if critique.KindOf(err) != critique.KindFetch {
			t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindFetch)
		}
	})
}

func TestNormalizeBase64(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer(t, nil, nil)

	t.Run("plain base64", func(t *testing.T) {
		img, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageBase64: testutil.TinyPNGBase64})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if img.MIMEType != "image/png" {
			t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
		}
	})

	t.Run("data url prefix", func(t *testing.T) {
		img, err := n.Normalize(context.Background(), &critique.CritiqueRequest{
			ImageBase64: "data:image/png;base64," + testutil.TinyPNGBase64,
		})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if img.MIMEType != "image/png" {
			t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageBase64: "not base64!!!"})
		if critique.KindOf(err) != critique.KindValidation {
			t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindValidation)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		enc := base64.StdEncoding.EncodeToString([]byte("just some text, definitely not pixels"))
		_, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageBase64: enc})
		if critique.KindOf(err) != critique.KindValidation {
			t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindValidation)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := n.Normalize(context.Background(), &critique.CritiqueRequest{ImageBase64: "data:image/png;base64,"})
		if critique.KindOf(err) != critique.KindValidation {
			t.Errorf("KindOf(err) = %q, want %q", critique.KindOf(err), critique.KindValidation)
		}
	})
}

func TestContentTypeBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"image/png", "image/png"},
		{"image/JPEG; charset=binary", "image/jpeg"},
		{"  text/html ; charset=utf-8", "text/html"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := contentTypeBase(tt.in); got != tt.want {
			t.Errorf("contentTypeBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
