package preferences

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/nestmap/internal/mapview"
	apperrors "github.com/louisbranch/nestmap/internal/services/web/platform/errors"
)

type fakeClient struct {
	order   []mapview.Category
	loadErr error
	saved   []mapview.Category
	savedBy string
}

func (f *fakeClient) GetPreferences(context.Context, string) ([]mapview.Category, error) {
	return f.order, f.loadErr
}

func (f *fakeClient) PutPreferences(_ context.Context, visitorID string, order []mapview.Category) error {
	f.savedBy, f.saved = visitorID, order
	return nil
}

func TestNewBackendGatewayWithNilClientIsUnavailable(t *testing.T) {
	t.Parallel()

	g := NewBackendGateway(nil)
	if IsAvailable(g) {
		t.Fatal("expected unavailable gateway")
	}
	if _, err := g.Load(context.Background(), "v1"); apperrors.KindOf(err) != apperrors.KindUnavailable {
		t.Fatalf("Load kind = %q", apperrors.KindOf(err))
	}
	if err := g.Save(context.Background(), "v1", nil); apperrors.KindOf(err) != apperrors.KindUnavailable {
		t.Fatalf("Save kind = %q", apperrors.KindOf(err))
	}
	if IsAvailable(nil) {
		t.Fatal("nil gateway must not be available")
	}
}

func TestBackendGatewayDelegates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	g := NewBackendGateway(client)
	if !IsAvailable(g) {
		t.Fatal("expected available gateway")
	}
	order := []mapview.Category{mapview.Safety, mapview.Noise}
	if err := g.Save(context.Background(), "v1", order); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if client.savedBy != "v1" || !cmp.Equal(client.saved, order) {
		t.Fatalf("saved = %q %v", client.savedBy, client.saved)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		client    *fakeClient
		visitorID string
		want      []mapview.Category
		wantKind  apperrors.Kind
	}{
		{
			name:      "stored order normalized",
			client:    &fakeClient{order: []mapview.Category{mapview.Convenience, "bogus", mapview.Convenience, mapview.Noise}},
			visitorID: "v1",
			want:      []mapview.Category{mapview.Convenience, mapview.Noise, mapview.Environment, mapview.Safety, mapview.Accessibility},
		},
		{
			name:      "unknown visitor gets canonical order",
			client:    &fakeClient{loadErr: apperrors.E(apperrors.KindNotFound, "no preferences")},
			visitorID: "v1",
			want:      mapview.Categories(),
		},
		{
			name:      "empty stored order gets canonical order",
			client:    &fakeClient{},
			visitorID: "v1",
			want:      mapview.Categories(),
		},
		{
			name:      "no visitor id",
			client:    &fakeClient{loadErr: errors.New("must not be called")},
			visitorID: " ",
			want:      mapview.Categories(),
		},
		{
			name:      "backend failure surfaces",
			client:    &fakeClient{loadErr: apperrors.E(apperrors.KindUnavailable, "down")},
			visitorID: "v1",
			wantKind:  apperrors.KindUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := LoadOrDefault(context.Background(), NewBackendGateway(tc.client), tc.visitorID)
			if tc.wantKind != "" {
				if apperrors.KindOf(err) != tc.wantKind {
					t.Fatalf("kind = %q, want %q", apperrors.KindOf(err), tc.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadOrDefault() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRankingForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    url.Values
		want    []mapview.Category
		wantErr bool
	}{
		{
			name: "rank selects",
			form: url.Values{"rank_1": {"3"}, "rank_2": {"5"}, "rank_3": {"1"}, "rank_4": {"4"}, "rank_5": {"2"}},
			want: []mapview.Category{mapview.Safety, mapview.Convenience, mapview.Noise, mapview.Accessibility, mapview.Environment},
		},
		{
			name:    "duplicate rank",
			form:    url.Values{"rank_1": {"1"}, "rank_2": {"1"}, "rank_3": {"3"}, "rank_4": {"4"}, "rank_5": {"5"}},
			wantErr: true,
		},
		{
			name:    "missing rank",
			form:    url.Values{"rank_1": {"1"}, "rank_2": {"2"}, "rank_3": {"3"}, "rank_4": {"4"}},
			wantErr: true,
		},
		{
			name:    "rank out of range",
			form:    url.Values{"rank_1": {"6"}, "rank_2": {"2"}, "rank_3": {"3"}, "rank_4": {"4"}, "rank_5": {"5"}},
			wantErr: true,
		},
		{
			name: "order list",
			form: url.Values{"order": {"4, 1,2,5,3"}},
			want: []mapview.Category{mapview.Accessibility, mapview.Noise, mapview.Environment, mapview.Convenience, mapview.Safety},
		},
		{
			name:    "order list with repeat",
			form:    url.Values{"order": {"1,1,2,3,4"}},
			wantErr: true,
		},
		{
			name:    "order list incomplete",
			form:    url.Values{"order": {"1,2,3"}},
			wantErr: true,
		},
		{
			name:    "order list unknown id",
			form:    url.Values{"order": {"1,2,3,4,9"}},
			wantErr: true,
		},
		{
			name:    "order list not numeric",
			form:    url.Values{"order": {"noise,2,3,4,5"}},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRankingForm(tc.form)
			if tc.wantErr {
				if !errors.Is(err, ErrIncompleteRanking) {
					t.Fatalf("error = %v, want ErrIncompleteRanking", err)
				}
				if apperrors.LocalizationKey(err) != "error.preferences.invalid" {
					t.Fatalf("key = %q", apperrors.LocalizationKey(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRankingForm() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormRanksEveryCategory(t *testing.T) {
	t.Parallel()

	form := Form("/app/profile/", []mapview.Category{mapview.Safety, mapview.Noise}, "profile.submit", nil)
	if form.Action != "/app/profile/" || form.SubmitKey != "profile.submit" {
		t.Fatalf("form = %+v", form)
	}
	got := map[int]int{}
	for _, option := range form.Options {
		got[option.Number] = option.Rank
	}
	want := map[int]int{3: 1, 1: 2, 2: 3, 4: 4, 5: 5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranks mismatch (-want +got):\n%s", diff)
	}
	if form.Options[0].Label != "category.noise" {
		t.Fatalf("label = %q, want key fallback", form.Options[0].Label)
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()

	got := Labels([]mapview.Category{mapview.Convenience, mapview.Safety}, nil)
	if diff := cmp.Diff([]string{"category.convenience", "category.safety"}, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}
