package feature

import (
	"context"
	"reflect"
	"testing"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/profile"
	"github.com/rushteam/listenkit/store"
)

func TestFloatFeature(t *testing.T) {
	row := feastsdk.Row{
		"listener_behavior:listening_hours": feastsdk.DoubleVal(12.5),
		"unique_tracks":                     feastsdk.Int64Val(340),
		"sessions_per_day":                  feastsdk.FloatVal(2.5),
	}

	if got := floatFeature(row, "listening_hours"); got != 12.5 {
		t.Errorf("full ref lookup = %v, want 12.5", got)
	}
	if got := floatFeature(row, "unique_tracks"); got != 340 {
		t.Errorf("short name lookup = %v, want 340", got)
	}
	if got := floatFeature(row, "sessions_per_day"); got != 2.5 {
		t.Errorf("float32 value = %v, want 2.5", got)
	}
	if got := floatFeature(row, "absent"); got != 0 {
		t.Errorf("missing feature = %v, want 0", got)
	}
	if got := floatFeature(feastsdk.Row{"listening_hours": nil}, "listening_hours"); got != 0 {
		t.Errorf("nil value = %v, want 0", got)
	}
}

func TestGenreFeature(t *testing.T) {
	row := feastsdk.Row{
		"top_genres": feastsdk.StrVal("pop, rock ,electronic"),
	}
	got := genreFeature(row, "top_genres")
	if !reflect.DeepEqual(got, []string{"pop", "rock", "electronic"}) {
		t.Errorf("genreFeature = %v", got)
	}

	if got := genreFeature(feastsdk.Row{}, "top_genres"); got != nil {
		t.Errorf("missing genres = %v, want nil", got)
	}
	// 数值类型的值没有字符串表示，安全返回空
	if got := genreFeature(feastsdk.Row{"top_genres": feastsdk.Int64Val(1)}, "top_genres"); got != nil {
		t.Errorf("non-string genres = %v, want nil", got)
	}
}

func TestFeatureValueTypes(t *testing.T) {
	// Int32 经由 oneof 分支提取
	v := &feasttypes.Value{Val: &feasttypes.Value_Int32Val{Int32Val: 7}}
	if got := floatFeature(feastsdk.Row{"n": v}, "n"); got != 7 {
		t.Errorf("int32 value = %v, want 7", got)
	}
}

func TestProfileProvider_Vectors(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	if err := mem.PersistProfile(ctx, &core.ListeningProfile{
		UserID:             "u1",
		TopGenres:          []string{"pop"},
		TotalListeningTime: 10 * time.Hour,
		UniqueTrackCount:   50,
		RepeatCounts:       map[string]int{"t": 3},
	}); err != nil {
		t.Fatal(err)
	}

	p := &ProfileProvider{Resolver: &profile.Resolver{
		Profiles: mem,
		Events:   mem,
		Logger:   zerolog.Nop(),
	}}

	vectors, err := p.Vectors(ctx, []string{"u1", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 1 {
		t.Fatalf("vectors = %d, want 1 (empty id skipped)", len(vectors))
	}
	if vectors[0].UserID != "u1" || vectors[0].ListeningHours != 10 {
		t.Errorf("vector = %+v", vectors[0])
	}
}
