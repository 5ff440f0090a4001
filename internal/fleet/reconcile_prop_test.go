package fleet

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func snapshotGen() *rapid.Generator[Snapshot] {
	nameGen := rapid.StringMatching(`[a-zA-Z][a-zA-Z0-9-]{0,11}`)

	configuredGen := rapid.Custom(func(t *rapid.T) ConfiguredDevice {
		name := nameGen.Draw(t, "name")
		return ConfiguredDevice{
			Name:               name,
			Configuration:      name + ".yaml",
			FriendlyName:       rapid.OneOf(rapid.Just(""), nameGen).Draw(t, "friendly_name"),
			UpdateAvailable:    rapid.Bool().Draw(t, "update_available"),
			LoadedIntegrations: rapid.SliceOfN(rapid.Just("wifi"), 0, 1).Draw(t, "integrations"),
		}
	})

	importableGen := rapid.Custom(func(t *rapid.T) ImportableDevice {
		return ImportableDevice{
			Name:             nameGen.Draw(t, "name"),
			PackageImportURL: "github://example/pkg",
			Ignored:          rapid.Bool().Draw(t, "ignored"),
		}
	})

	return rapid.Custom(func(t *rapid.T) Snapshot {
		return Snapshot{
			Configured: uniqueByName(rapid.SliceOfN(configuredGen, 0, 8).Draw(t, "configured")),
			Importable: uniqueImportable(rapid.SliceOfN(importableGen, 0, 8).Draw(t, "importable")),
		}
	})
}

func uniqueByName(devices []ConfiguredDevice) []ConfiguredDevice {
	seen := make(map[string]struct{})
	out := devices[:0]
	for _, d := range devices {
		key := strings.ToLower(d.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

func uniqueImportable(devices []ImportableDevice) []ImportableDevice {
	seen := make(map[string]struct{})
	out := devices[:0]
	for _, d := range devices {
		key := strings.ToLower(d.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

func TestReconcile_OrderingInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := snapshotGen().Draw(t, "snapshot")

		result := Reconcile(nil, snap)

		// Importables strictly precede configured entries.
		sawConfigured := false
		for _, e := range result.List {
			if e.Kind == KindConfigured {
				sawConfigured = true
			} else if sawConfigured {
				t.Fatalf("importable %q after a configured entry", e.Name())
			}
		}

		// Ignored importables never precede non-ignored ones.
		sawIgnored := false
		for _, e := range result.List {
			if e.Kind != KindImportable {
				continue
			}
			if e.Importable.Ignored {
				sawIgnored = true
			} else if sawIgnored {
				t.Fatalf("non-ignored importable %q after an ignored one", e.Name())
			}
		}

		// Configured subset ascending case-insensitive by display name.
		prev := ""
		for _, e := range result.List {
			if e.Kind != KindConfigured {
				continue
			}
			cur := strings.ToLower(e.Configured.DisplayName())
			if prev != "" && cur < prev && !strings.EqualFold(cur, prev) {
				t.Fatalf("configured entries out of order: %q before %q", prev, cur)
			}
			prev = cur
		}
	})
}

func TestReconcile_AddedIsSetDifference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prevSnap := snapshotGen().Draw(t, "prev")
		nextSnap := snapshotGen().Draw(t, "next")

		prev := Reconcile(nil, prevSnap).List
		result := Reconcile(prev, nextSnap)

		prevNames := make(map[string]struct{})
		for _, d := range prevSnap.Configured {
			prevNames[d.Name] = struct{}{}
		}

		want := make(map[string]struct{})
		for _, d := range nextSnap.Configured {
			if _, ok := prevNames[d.Name]; !ok {
				want[d.Name] = struct{}{}
			}
		}

		got := make(map[string]struct{})
		for _, name := range result.Added {
			got[name] = struct{}{}
		}

		if len(got) != len(want) {
			t.Fatalf("added set mismatch: got %v, want %v", result.Added, want)
		}
		for name := range want {
			if _, ok := got[name]; !ok {
				t.Fatalf("missing added name %q", name)
			}
		}
	})
}

func TestReconcile_SecondPassAddsNothing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snap := snapshotGen().Draw(t, "snapshot")

		first := Reconcile(nil, snap)
		second := Reconcile(first.List, snap)

		if len(second.Added) != 0 {
			t.Fatalf("repeat reconcile added %v", second.Added)
		}
	})
}
