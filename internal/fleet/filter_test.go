package fleet

import (
	"reflect"
	"testing"
)

func TestFilter(t *testing.T) {
	list := ViewList{
		NewImportableEntry(ImportableDevice{
			Name:             "thermostat-1",
			PackageImportURL: "github://example/thermostat",
			ProjectName:      "climate",
		}),
		NewConfiguredEntry(ConfiguredDevice{
			Name:          "kitchen",
			Configuration: "kitchen.yaml",
			FriendlyName:  "Kitchen Light",
		}),
		NewConfiguredEntry(ConfiguredDevice{
			Name:          "garage-door",
			Configuration: "garage-door.yaml",
		}),
	}

	tests := []struct {
		name           string
		showDiscovered bool
		query          string
		want           []string
	}{
		{
			name:           "no query shows everything when discovered allowed",
			showDiscovered: true,
			want:           []string{"thermostat-1", "kitchen", "garage-door"},
		},
		{
			name: "discovered hidden when flag off",
			want: []string{"kitchen", "garage-door"},
		},
		{
			name:  "importable name match excluded when flag off",
			query: "therm",
			want:  []string{},
		},
		{
			name:           "importable name match included when flag on",
			showDiscovered: true,
			query:          "therm",
			want:           []string{"thermostat-1"},
		},
		{
			name:  "query matches friendly name case-insensitively",
			query: "LIGHT",
			want:  []string{"kitchen"},
		},
		{
			name:           "query matches project name",
			showDiscovered: true,
			query:          "climate",
			want:           []string{"thermostat-1"},
		},
		{
			name:  "query with no match",
			query: "bedroom",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(list, tt.showDiscovered, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilter_CommentMatch(t *testing.T) {
	list := ViewList{
		NewImportableEntry(ImportableDevice{
			Name:             "esp-generic",
			PackageImportURL: "github://example/esp-generic",
			Comment:          "found in workshop",
		}),
	}

	got := Filter(list, true, "workshop")
	if len(got) != 1 {
		t.Fatalf("expected comment match, got %v", names(got))
	}
}
