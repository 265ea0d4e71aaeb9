// README: Pricing domain types: items, quote input, tier config, breakdown.
package pricing

// ItemType is a predefined parcel category. Categories are informational
// for pricing; only quantity, weight, and dimensions feed the formula.
type ItemType string

const (
	ItemEnvelope       ItemType = "envelope"
	ItemSmallBox       ItemType = "small_box"
	ItemMediumBox      ItemType = "medium_box"
	ItemLargeBox       ItemType = "large_box"
	ItemPelicanCase    ItemType = "pelican_case"
	ItemRoadCaseSingle ItemType = "road_case_single"
	ItemRoadCaseDouble ItemType = "road_case_double"
	ItemBlueTub        ItemType = "blue_tub"
	ItemTube           ItemType = "tube"
	ItemAGAKit         ItemType = "aga_kit"
	ItemPallet         ItemType = "pallet"
	ItemCustom         ItemType = "custom"
)

// ServiceType is a delivery speed/urgency class with its own multiplier
// and minimum charge.
type ServiceType string

const (
	ServiceStandard       ServiceType = "standard"
	ServiceSameDay        ServiceType = "same_day"
	ServiceNextDay        ServiceType = "next_day"
	ServiceLocalOvernight ServiceType = "local_overnight"
	ServiceEmergency      ServiceType = "emergency"
	ServiceVIP            ServiceType = "vip"
	ServicePriority       ServiceType = "priority"
	ServiceScheduled      ServiceType = "scheduled"
	ServiceAfterHours     ServiceType = "after_hours"
)

// Item is one shipped unit group on a consignment.
type Item struct {
	Type     ItemType `json:"item_type"`
	Quantity int      `json:"quantity"`
	// WeightPerUnitKg is ignored when IsUnder10kg is set; the engine
	// then substitutes the configured nominal weight per unit.
	WeightPerUnitKg float64 `json:"weight_per_unit"`
	IsUnder10kg     bool    `json:"is_under_10kg"`
	// Dimensions feed volumetric weight only when all three are > 0.
	LengthCm float64 `json:"length,omitempty"`
	WidthCm  float64 `json:"width,omitempty"`
	HeightCm float64 `json:"height,omitempty"`
	// Fragile is carried through to the order record; no price effect.
	Fragile bool `json:"fragile,omitempty"`
}

// QuoteInput is the aggregate the engine prices. It is rebuilt by the
// calling form on every edit, so zero distance or zero weight are valid
// mid-edit states and must produce a breakdown rather than an error.
type QuoteInput struct {
	Items          []Item      `json:"items"`
	DistanceKm     float64     `json:"distance_km"`
	Service        ServiceType `json:"service_type"`
	WaitingMinutes int         `json:"waiting_time_minutes,omitempty"`
	UseCustomPrice bool        `json:"use_custom_price,omitempty"`
	CustomPrice    float64     `json:"custom_price,omitempty"`
	// FuelLevyPercent overrides the configured levy when non-nil
	// (admin order form exposes a 0–25 slider).
	FuelLevyPercent *float64 `json:"fuel_levy_percent,omitempty"`
}

// Breakdown is the itemized result persisted verbatim onto the order.
// All monetary fields are rounded to 2 decimal places.
type Breakdown struct {
	BasePrice          float64 `json:"base_price"`
	DistanceCharge     float64 `json:"distance_charge"`
	WeightCharge       float64 `json:"weight_charge"`
	WaitingCharge      float64 `json:"waiting_charge"`
	Subtotal           float64 `json:"subtotal"`
	FuelLevy           float64 `json:"fuel_levy"`
	GST                float64 `json:"gst"`
	Total              float64 `json:"total"`
	ChargeableWeightKg float64 `json:"chargeable_weight_kg"`
	// RequiresQuote means no deterministic price exists; the totals
	// above are advisory zeros and submission must be blocked until a
	// human supplies a price.
	RequiresQuote bool `json:"requires_quote"`
}

// TierConfig is the per-service-type pricing row.
type TierConfig struct {
	Multiplier    float64 `json:"multiplier"`
	Minimum       float64 `json:"minimum"`
	RequiresQuote bool    `json:"requires_quote"`
}

// Config carries every tunable the engine reads. Operators retune all
// of it through the settings store; nothing here is a hidden constant.
type Config struct {
	DistanceRatePerKm    float64                    `json:"distance_rate_per_km"`
	WeightRatePerKg      float64                    `json:"weight_rate_per_kg"`
	BaseFee              float64                    `json:"base_fee"`
	FuelLevyPercent      float64                    `json:"fuel_levy_percent"`
	GSTPercent           float64                    `json:"gst_percent"`
	WaitingRatePerMinute float64                    `json:"waiting_rate_per_minute"`
	Under10kgNominalKg   float64                    `json:"under_10kg_nominal_kg"`
	VolumetricDivisor    float64                    `json:"volumetric_divisor"`
	AfterHoursCallout    float64                    `json:"after_hours_callout"`
	AfterHoursIncludedKm float64                    `json:"after_hours_included_km"`
	AfterHoursExcessRate float64                    `json:"after_hours_excess_rate"`
	Tiers                map[ServiceType]TierConfig `json:"tiers"`
}

// DefaultConfig returns the stock rate card. Deployment overrides from
// the settings store are merged on top of these values.
func DefaultConfig() Config {
	return Config{
		DistanceRatePerKm:    1.90,
		WeightRatePerKg:      2.70,
		BaseFee:              10.00,
		FuelLevyPercent:      10.0,
		GSTPercent:           10.0,
		WaitingRatePerMinute: 1.00,
		Under10kgNominalKg:   5.0,
		VolumetricDivisor:    6000.0,
		AfterHoursCallout:    150.00,
		AfterHoursIncludedKm: 10.0,
		AfterHoursExcessRate: 1.70,
		Tiers: map[ServiceType]TierConfig{
			ServiceStandard:       {Multiplier: 1.00, Minimum: 65.00},
			ServiceSameDay:        {Multiplier: 1.25, Minimum: 80.00},
			ServiceNextDay:        {Multiplier: 0.90, Minimum: 55.00},
			ServiceLocalOvernight: {Multiplier: 0.85, Minimum: 50.00},
			ServiceEmergency:      {Multiplier: 1.75, Minimum: 120.00},
			ServiceVIP:            {Multiplier: 1.50, Minimum: 100.00},
			ServicePriority:       {Multiplier: 1.40, Minimum: 95.00},
			ServiceScheduled:      {Multiplier: 0.80, Minimum: 50.00},
			// after_hours is priced by the flat call-out structure;
			// multiplier and minimum are not applied to it.
			ServiceAfterHours: {Multiplier: 1.00, Minimum: 0},
		},
	}
}
