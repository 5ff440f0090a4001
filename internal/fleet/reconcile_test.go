package fleet

import (
	"reflect"
	"testing"
)

func names(list ViewList) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name())
	}
	return out
}

func configured(name string, opts ...func(*ConfiguredDevice)) ConfiguredDevice {
	d := ConfiguredDevice{
		Name:               name,
		Configuration:      name + ".yaml",
		LoadedIntegrations: []string{"wifi"},
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func withFriendlyName(fn string) func(*ConfiguredDevice) {
	return func(d *ConfiguredDevice) { d.FriendlyName = fn }
}

func withoutMetadata() func(*ConfiguredDevice) {
	return func(d *ConfiguredDevice) { d.LoadedIntegrations = nil }
}

func importable(name string, ignored bool) ImportableDevice {
	return ImportableDevice{
		Name:             name,
		PackageImportURL: "github://example/" + name,
		Ignored:          ignored,
	}
}

func TestReconcile_NilConfiguredIsNoOp(t *testing.T) {
	prev := ViewList{NewConfiguredEntry(configured("a"))}

	result := Reconcile(prev, Snapshot{Importable: []ImportableDevice{importable("x", false)}})

	if result.Changed {
		t.Error("expected Changed=false for snapshot without configured devices")
	}
	if !reflect.DeepEqual(result.List, prev) {
		t.Errorf("expected previous list retained, got %v", names(result.List))
	}
	if len(result.Added) != 0 {
		t.Errorf("expected no added devices, got %v", result.Added)
	}
	if result.ScrollTarget != "" {
		t.Errorf("expected empty scroll target, got %q", result.ScrollTarget)
	}
}

func TestReconcile_FirstRunAddsEverything(t *testing.T) {
	snap := Snapshot{Configured: []ConfiguredDevice{configured("b"), configured("a")}}

	result := Reconcile(nil, snap)

	if !result.Changed {
		t.Fatal("expected Changed=true")
	}
	if !reflect.DeepEqual(result.Added, []string{"b", "a"}) {
		t.Errorf("expected added in snapshot order, got %v", result.Added)
	}
	if result.ScrollTarget != "b" {
		t.Errorf("expected scroll target %q, got %q", "b", result.ScrollTarget)
	}
	if got := names(result.List); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected sorted list [a b], got %v", got)
	}
}

func TestReconcile_DetectsNewDevice(t *testing.T) {
	prev := Reconcile(nil, Snapshot{Configured: []ConfiguredDevice{configured("a")}}).List

	result := Reconcile(prev, Snapshot{Configured: []ConfiguredDevice{
		configured("a"),
		configured("b"),
	}})

	if !reflect.DeepEqual(result.Added, []string{"b"}) {
		t.Errorf("expected added [b], got %v", result.Added)
	}
	if result.ScrollTarget != "b" {
		t.Errorf("expected scroll target %q, got %q", "b", result.ScrollTarget)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	snap := Snapshot{
		Configured: []ConfiguredDevice{configured("a"), configured("b")},
		Importable: []ImportableDevice{importable("x", false)},
	}

	first := Reconcile(nil, snap)
	second := Reconcile(first.List, snap)

	if len(second.Added) != 0 {
		t.Errorf("expected empty added set on repeat, got %v", second.Added)
	}
	if second.ScrollTarget != "" {
		t.Errorf("expected empty scroll target on repeat, got %q", second.ScrollTarget)
	}
	if !reflect.DeepEqual(names(first.List), names(second.List)) {
		t.Errorf("expected stable ordering, got %v then %v", names(first.List), names(second.List))
	}
}

func TestReconcile_ConfiguredSortsByFriendlyName(t *testing.T) {
	snap := Snapshot{Configured: []ConfiguredDevice{
		configured("zeta-device", withFriendlyName("Attic Sensor")),
		configured("alpha-device"),
		configured("mid-device", withFriendlyName("kitchen light")),
	}}

	result := Reconcile(nil, snap)

	// Case-insensitive by display name: alpha-device, Attic Sensor,
	// kitchen light.
	want := []string{"alpha-device", "zeta-device", "mid-device"}
	if got := names(result.List); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestReconcile_IgnoredImportablesSortLast(t *testing.T) {
	snap := Snapshot{
		Configured: []ConfiguredDevice{},
		Importable: []ImportableDevice{
			importable("Z", false),
			importable("A", true),
		},
	}

	result := Reconcile(nil, snap)

	// Non-ignored Z sorts before ignored A despite alphabetical order.
	want := []string{"Z", "A"}
	if got := names(result.List); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestReconcile_ImportablesPrecedeConfigured(t *testing.T) {
	snap := Snapshot{
		Configured: []ConfiguredDevice{configured("aaa-configured")},
		Importable: []ImportableDevice{importable("zzz-discovered", false)},
	}

	result := Reconcile(nil, snap)

	want := []string{"zzz-discovered", "aaa-configured"}
	if got := names(result.List); !reflect.DeepEqual(got, want) {
		t.Errorf("expected importables first %v, got %v", want, got)
	}
}

func TestReconcile_ReportsMissingMetadata(t *testing.T) {
	snap := Snapshot{Configured: []ConfiguredDevice{
		configured("has-meta"),
		configured("no-meta", withoutMetadata()),
	}}

	result := Reconcile(nil, snap)

	want := []string{"no-meta.yaml"}
	if !reflect.DeepEqual(result.NeedsMetadata, want) {
		t.Errorf("expected metadata candidates %v, got %v", want, result.NeedsMetadata)
	}
}

func TestReconcile_RemovedDeviceDropsFromList(t *testing.T) {
	prev := Reconcile(nil, Snapshot{Configured: []ConfiguredDevice{
		configured("a"),
		configured("b"),
	}}).List

	result := Reconcile(prev, Snapshot{Configured: []ConfiguredDevice{configured("b")}})

	if got := names(result.List); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("expected [b], got %v", got)
	}
	if len(result.Added) != 0 {
		t.Errorf("expected no added devices, got %v", result.Added)
	}
}

func TestReconcile_EmptyConfiguredClearsList(t *testing.T) {
	prev := Reconcile(nil, Snapshot{Configured: []ConfiguredDevice{configured("a")}}).List

	result := Reconcile(prev, Snapshot{Configured: []ConfiguredDevice{}})

	if !result.Changed {
		t.Error("expected Changed=true for explicitly empty configured set")
	}
	if len(result.List) != 0 {
		t.Errorf("expected empty list, got %v", names(result.List))
	}
}
