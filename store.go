package tracker

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Persistence is deliberately boring: one directory, one JSON file per
// concern, written whole after every confirmed mutation. The files are
// human-readable and easy to back up or diff.

const (
	portfolioFilename = "portfolio.json"
	mappingsFilename  = "mappings.json"
	settingsFilename  = "settings.json"
)

// DefaultDataDir returns (and creates) the default data directory,
// ~/.tracker.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	dir := filepath.Join(home, ".tracker")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create data directory %q: %w", dir, err)
	}
	return dir, nil
}

// jholding is the serialized form of a Holding; enum fields are persisted as
// their string labels.
type jholding struct {
	Instrument       string  `json:"instrument"`
	Position         float64 `json:"position"`
	LastPrice        float64 `json:"last_price"`
	ChangePct        float64 `json:"change_pct"`
	CostBasis        float64 `json:"cost_basis"`
	MarketValue      float64 `json:"market_value"`
	AvgPrice         float64 `json:"avg_price"`
	DailyPnL         float64 `json:"daily_pnl"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	AssetType        string  `json:"asset_type"`
	Region           string  `json:"region"`
	TargetAllocation float64 `json:"target_allocation"`
	Currency         string  `json:"currency"`
}

type jportfolio struct {
	Holdings []jholding `json:"holdings"`
	FreeCash float64    `json:"free_cash"`
}

func encodeHolding(h Holding) jholding {
	return jholding{
		Instrument:       h.Instrument,
		Position:         h.Position,
		LastPrice:        h.LastPrice,
		ChangePct:        h.ChangePct,
		CostBasis:        h.CostBasis,
		MarketValue:      h.MarketValue,
		AvgPrice:         h.AvgPrice,
		DailyPnL:         h.DailyPnL,
		UnrealizedPnL:    h.UnrealizedPnL,
		AssetType:        h.AssetType.String(),
		Region:           h.Region.String(),
		TargetAllocation: h.TargetAllocation,
		Currency:         h.Currency,
	}
}

// decodeHolding is lenient on classification fields: a malformed enum label
// degrades that field to Unassigned with a warning, it never fails the load.
func decodeHolding(j jholding) Holding {
	h := Holding{
		Instrument:       j.Instrument,
		Position:         j.Position,
		LastPrice:        j.LastPrice,
		ChangePct:        j.ChangePct,
		CostBasis:        j.CostBasis,
		MarketValue:      j.MarketValue,
		AvgPrice:         j.AvgPrice,
		DailyPnL:         j.DailyPnL,
		UnrealizedPnL:    j.UnrealizedPnL,
		TargetAllocation: j.TargetAllocation,
		Currency:         j.Currency,
	}
	if h.Currency == "" {
		h.Currency = "EUR"
	}
	var err error
	if h.AssetType, err = ParseAssetType(j.AssetType); err != nil {
		log.Printf("warning: holding %q: %v, keeping Unassigned", j.Instrument, err)
	}
	if h.Region, err = ParseRegion(j.Region); err != nil {
		log.Printf("warning: holding %q: %v, keeping Unassigned", j.Instrument, err)
	}
	return h
}

func encodePortfolio(p *Portfolio) jportfolio {
	jp := jportfolio{FreeCash: p.FreeCash, Holdings: make([]jholding, 0, len(p.Holdings))}
	for _, h := range p.Holdings {
		jp.Holdings = append(jp.Holdings, encodeHolding(h))
	}
	return jp
}

func decodePortfolio(jp jportfolio) *Portfolio {
	p := &Portfolio{FreeCash: jp.FreeCash}
	for _, jh := range jp.Holdings {
		p.Holdings = append(p.Holdings, decodeHolding(jh))
	}
	return p
}

// PortfolioStore persists the portfolio snapshot.
type PortfolioStore struct {
	path string
}

func NewPortfolioStore(dir string) *PortfolioStore {
	return &PortfolioStore{path: filepath.Join(dir, portfolioFilename)}
}

// Load reads the portfolio file. A missing file surfaces as fs.ErrNotExist
// so the caller can start with an empty portfolio; a corrupt file is an
// error.
func (s *PortfolioStore) Load() (*Portfolio, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var jp jportfolio
	if err := json.Unmarshal(content, &jp); err != nil {
		return nil, fmt.Errorf("cannot parse portfolio file %q: %w", s.path, err)
	}
	return decodePortfolio(jp), nil
}

// Save writes the whole portfolio file.
func (s *PortfolioStore) Save(p *Portfolio) error {
	content, err := json.MarshalIndent(encodePortfolio(p), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0o644)
}

// jmapping is the serialized form of a Classification.
type jmapping struct {
	AssetType        string  `json:"asset_type"`
	Region           string  `json:"region"`
	TargetAllocation float64 `json:"target_allocation"`
	Currency         string  `json:"currency"`
}

// MappingsStore remembers the classification a user assigned to each
// instrument and re-applies it to freshly imported holdings. Values are kept
// in their raw serialized form and parsed on use, so one malformed entry
// never poisons the rest.
type MappingsStore struct {
	path     string
	mappings map[string]jmapping
}

// NewMappingsStore opens (or initializes) the mappings file in dir. A
// missing file is a fresh start; an unreadable one is logged and treated
// the same.
func NewMappingsStore(dir string) *MappingsStore {
	s := &MappingsStore{
		path:     filepath.Join(dir, mappingsFilename),
		mappings: make(map[string]jmapping),
	}
	content, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: cannot load mappings: %v", err)
		}
		return s
	}
	if err := json.Unmarshal(content, &s.mappings); err != nil {
		log.Printf("warning: cannot parse mappings file %q: %v", s.path, err)
		s.mappings = make(map[string]jmapping)
	}
	return s
}

// Save writes the whole mappings file.
func (s *MappingsStore) Save() error {
	content, err := json.MarshalIndent(s.mappings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0o644)
}

// Len returns the number of stored mappings.
func (s *MappingsStore) Len() int { return len(s.mappings) }

// Mapping returns the remembered classification for an instrument, or false
// when there is none or the stored entry is malformed.
func (s *MappingsStore) Mapping(instrument string) (Classification, bool) {
	j, ok := s.mappings[instrument]
	if !ok {
		return Classification{}, false
	}
	c, err := decodeMapping(j)
	if err != nil {
		return Classification{}, false
	}
	return c, true
}

func decodeMapping(j jmapping) (Classification, error) {
	t, err := ParseAssetType(j.AssetType)
	if err != nil {
		return Classification{}, err
	}
	r, err := ParseRegion(j.Region)
	if err != nil {
		return Classification{}, err
	}
	currency := j.Currency
	if currency == "" {
		currency = "EUR"
	}
	return Classification{AssetType: t, Region: r, TargetAllocation: j.TargetAllocation, Currency: currency}, nil
}

// SetMapping remembers the classification for an instrument, overwriting
// any prior entry.
func (s *MappingsStore) SetMapping(instrument string, c Classification) {
	s.mappings[instrument] = jmapping{
		AssetType:        c.AssetType.String(),
		Region:           c.Region.String(),
		TargetAllocation: c.TargetAllocation,
		Currency:         c.Currency,
	}
}

// Replace swaps the whole mapping set, used when loading a full snapshot.
func (s *MappingsStore) Replace(mappings map[string]Classification) {
	s.mappings = make(map[string]jmapping, len(mappings))
	for instrument, c := range mappings {
		s.SetMapping(instrument, c)
	}
}

// ApplyMappings overwrites the classification fields of each holding that
// has a remembered mapping. A malformed stored entry leaves that holding
// untouched and is logged; the batch continues.
func (s *MappingsStore) ApplyMappings(holdings []Holding) {
	for i := range holdings {
		j, ok := s.mappings[holdings[i].Instrument]
		if !ok {
			continue
		}
		c, err := decodeMapping(j)
		if err != nil {
			log.Printf("warning: ignoring stored classification for %q: %v", holdings[i].Instrument, err)
			continue
		}
		holdings[i].AssetType = c.AssetType
		holdings[i].Region = c.Region
		holdings[i].TargetAllocation = c.TargetAllocation
		holdings[i].Currency = c.Currency
	}
}

// UpdateFromHoldings persists the classification of every holding that
// deviates from the unclassified baseline (Unassigned/Unassigned/EUR), so
// no-op entries never bloat the store.
func (s *MappingsStore) UpdateFromHoldings(holdings []Holding) {
	for _, h := range holdings {
		if h.AssetType == UnassignedType && h.Region == UnassignedRegion && h.Currency == "EUR" {
			continue
		}
		s.SetMapping(h.Instrument, Classification{
			AssetType:        h.AssetType,
			Region:           h.Region,
			TargetAllocation: h.TargetAllocation,
			Currency:         h.Currency,
		})
	}
}

// Settings is everything outside the portfolio itself that survives a
// restart. ColumnOrders, TabOrder and WindowGeometry are opaque UI state:
// stored and round-tripped for the presentation layer, never interpreted
// here.
type Settings struct {
	FreeCash       float64            `json:"free_cash"`
	LastImportPath string             `json:"last_import_path"`
	Currencies     []string           `json:"currencies"`
	ExchangeRates  map[string]float64 `json:"exchange_rates"`
	RatesUpdated   string             `json:"rates_updated"`
	ColumnOrders   map[string][]int   `json:"column_orders,omitempty"`
	TabOrder       []string           `json:"tab_order,omitempty"`
	WindowGeometry string             `json:"window_geometry,omitempty"`
}

// SettingsStore persists application settings.
type SettingsStore struct {
	path     string
	Settings Settings
}

// NewSettingsStore opens (or initializes) the settings file in dir,
// layering the stored values over the defaults. Load failures are logged
// and leave the defaults in place.
func NewSettingsStore(dir string) *SettingsStore {
	s := &SettingsStore{path: filepath.Join(dir, settingsFilename)}
	s.Settings = Settings{
		Currencies:    append([]string(nil), defaultCurrencies...),
		ExchangeRates: make(map[string]float64, len(defaultRates)),
	}
	for k, v := range defaultRates {
		s.Settings.ExchangeRates[k] = v
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: cannot load settings: %v", err)
		}
		return s
	}
	if err := json.Unmarshal(content, &s.Settings); err != nil {
		log.Printf("warning: cannot parse settings file %q: %v", s.path, err)
	}
	s.ensureEUR()
	return s
}

// ensureEUR keeps the EUR invariants regardless of what was stored.
func (s *SettingsStore) ensureEUR() {
	for _, c := range s.Settings.Currencies {
		if c == "EUR" {
			s.Settings.ExchangeRates["EUR"] = 1.0
			return
		}
	}
	s.Settings.Currencies = append([]string{"EUR"}, s.Settings.Currencies...)
	if s.Settings.ExchangeRates == nil {
		s.Settings.ExchangeRates = make(map[string]float64)
	}
	s.Settings.ExchangeRates["EUR"] = 1.0
}

// Save writes the whole settings file.
func (s *SettingsStore) Save() error {
	content, err := json.MarshalIndent(s.Settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0o644)
}

// RateTable builds the session's rate table from the stored settings.
func (s *SettingsStore) RateTable() *RateTable {
	return NewRateTableFrom(s.Settings.Currencies, s.Settings.ExchangeRates, s.Settings.RatesUpdated)
}

// SetRateTable copies the table's state back into the settings, ready to be
// saved.
func (s *SettingsStore) SetRateTable(t *RateTable) {
	s.Settings.Currencies = t.Currencies()
	s.Settings.ExchangeRates = t.Rates()
	s.Settings.RatesUpdated = t.Updated()
}
