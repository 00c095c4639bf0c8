package tracker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestPortfolioStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewPortfolioStore(dir)

	if _, err := store.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() on a fresh dir error = %v, want fs.ErrNotExist", err)
	}

	p := testPortfolio()
	if err := store.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Holdings) != 2 || !almostEqual(loaded.FreeCash, 50) {
		t.Fatalf("loaded = %+v, want 2 holdings and 50 cash", loaded)
	}
	if loaded.Holdings[0] != p.Holdings[0] {
		t.Errorf("Holdings[0] = %+v, want %+v", loaded.Holdings[0], p.Holdings[0])
	}
}

func TestPortfolioStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "portfolio.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPortfolioStore(dir).Load(); err == nil {
		t.Error("Load() on a corrupt file error = nil, want parse error")
	}
}

func TestPortfolioStoreLenientDecode(t *testing.T) {
	dir := t.TempDir()
	content := `{"holdings":[{"instrument":"X","asset_type":"Nonsense","region":"Mars","currency":""}],"free_cash":0}`
	if err := os.WriteFile(filepath.Join(dir, "portfolio.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := NewPortfolioStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	h := p.Holdings[0]
	if h.AssetType != UnassignedType || h.Region != UnassignedRegion {
		t.Errorf("classification = %v/%v, want Unassigned degradation", h.AssetType, h.Region)
	}
	if h.Currency != "EUR" {
		t.Errorf("Currency = %q, want the EUR default", h.Currency)
	}
}

func TestMappingsStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewMappingsStore(dir)

	store.SetMapping("VWCE", Classification{AssetType: Equity, Region: Global, TargetAllocation: 0.6, Currency: "USD"})
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	store = NewMappingsStore(dir)
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
	c, ok := store.Mapping("VWCE")
	if !ok {
		t.Fatal("Mapping(VWCE) = false, want true")
	}
	if c.AssetType != Equity || c.Region != Global || !almostEqual(c.TargetAllocation, 0.6) || c.Currency != "USD" {
		t.Errorf("Mapping(VWCE) = %+v, want Equity/Global/0.6/USD", c)
	}
}

func TestMappingsStoreMalformedEntry(t *testing.T) {
	dir := t.TempDir()
	content := `{"GOOD":{"asset_type":"Equity","region":"US","target_allocation":0.5,"currency":"EUR"},
"BAD":{"asset_type":"Nope","region":"US"}}`
	if err := os.WriteFile(filepath.Join(dir, "mappings.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewMappingsStore(dir)

	if _, ok := store.Mapping("BAD"); ok {
		t.Error("Mapping(BAD) = true, want malformed entry rejected")
	}
	if _, ok := store.Mapping("GOOD"); !ok {
		t.Error("Mapping(GOOD) = false, want the valid entry kept")
	}

	// A malformed entry leaves its holding untouched and the batch alive.
	holdings := []Holding{NewHolding("BAD"), NewHolding("GOOD")}
	store.ApplyMappings(holdings)
	if holdings[0].AssetType != UnassignedType {
		t.Errorf("BAD AssetType = %v, want untouched Unassigned", holdings[0].AssetType)
	}
	if holdings[1].AssetType != Equity || holdings[1].Region != US {
		t.Errorf("GOOD = %v/%v, want Equity/US applied", holdings[1].AssetType, holdings[1].Region)
	}
}

func TestUpdateFromHoldingsSkipsBaseline(t *testing.T) {
	store := NewMappingsStore(t.TempDir())

	classified := NewHolding("CLASSIFIED")
	classified.AssetType = Bonds
	plain := NewHolding("PLAIN") // Unassigned/Unassigned/EUR

	store.UpdateFromHoldings([]Holding{classified, plain})
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (baseline holdings are not persisted)", store.Len())
	}
	if _, ok := store.Mapping("PLAIN"); ok {
		t.Error("Mapping(PLAIN) = true, want baseline skipped")
	}
}

func TestMappingsStoreReplace(t *testing.T) {
	store := NewMappingsStore(t.TempDir())
	store.SetMapping("OLD", Classification{AssetType: Equity, Currency: "EUR"})

	store.Replace(map[string]Classification{
		"NEW": {AssetType: Bonds, Region: EM, Currency: "USD"},
	})
	if _, ok := store.Mapping("OLD"); ok {
		t.Error("Mapping(OLD) = true, want wholesale replacement")
	}
	if c, ok := store.Mapping("NEW"); !ok || c.AssetType != Bonds {
		t.Errorf("Mapping(NEW) = %+v, %v, want the new entry", c, ok)
	}
}

func TestSettingsStoreDefaultsAndRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(dir)

	if got := store.Settings.Currencies; len(got) != 4 || got[0] != "EUR" {
		t.Fatalf("default Currencies = %v, want the 4 seeds with EUR first", got)
	}
	if !almostEqual(store.Settings.ExchangeRates["USD"], 1.09) {
		t.Errorf("default USD rate = %v, want 1.09", store.Settings.ExchangeRates["USD"])
	}

	store.Settings.FreeCash = 123.45
	store.Settings.LastImportPath = "/tmp/holdings.xlsx"
	table := store.RateTable()
	if err := table.SetRate("USD", 1.20); err != nil {
		t.Fatalf("SetRate() error = %v", err)
	}
	store.SetRateTable(table)
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	store = NewSettingsStore(dir)
	if !almostEqual(store.Settings.FreeCash, 123.45) {
		t.Errorf("FreeCash = %v, want 123.45", store.Settings.FreeCash)
	}
	if store.Settings.LastImportPath != "/tmp/holdings.xlsx" {
		t.Errorf("LastImportPath = %q, want the saved path", store.Settings.LastImportPath)
	}
	if !almostEqual(store.Settings.ExchangeRates["USD"], 1.20) {
		t.Errorf("USD rate = %v, want the saved 1.20", store.Settings.ExchangeRates["USD"])
	}
}

func TestSettingsStoreEnsuresEUR(t *testing.T) {
	dir := t.TempDir()
	content := `{"currencies":["USD"],"exchange_rates":{"USD":1.10}}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewSettingsStore(dir)
	if store.Settings.Currencies[0] != "EUR" {
		t.Errorf("Currencies = %v, want EUR forced first", store.Settings.Currencies)
	}
	if !almostEqual(store.Settings.ExchangeRates["EUR"], 1.0) {
		t.Errorf("EUR rate = %v, want 1.0", store.Settings.ExchangeRates["EUR"])
	}
}
