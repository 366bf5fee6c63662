package schema

const (
	// name constraints, length is measured on the full name including separator and tld
	MinNameLength = 3 // a valid name must be strictly longer than this
	MaxNameLength = 256

	LabelSeparator = "."

	// registration state machine
	GracePeriod = 21 * 24 * 60 * 60 // 21 days

	// duration units, fixed second counts, no calendar arithmetic
	YearInSeconds   = 365 * 24 * 60 * 60
	MonthInSeconds  = 30 * 24 * 60 * 60
	DayInSeconds    = 24 * 60 * 60
	HourInSeconds   = 60 * 60
	MinuteInSeconds = 60

	// fee schedule is denominated in usd cents per year
	SubDomainCostUsdCents = 250 // flat fee per subdomain

	MigrationPeriod = 21 * 24 * 60 * 60 // 21 days after migration start time

	RoyaltiesMax = 10_000 // basis points, 100%

	// native payment token of the hosting chain
	NativeToken = "EGLD"
)

// duration units accepted by register_or_renew
const (
	UnitYear   = "year"
	UnitMonth  = "month"
	UnitDay    = "day"
	UnitHour   = "hour"
	UnitMinute = "minute"
)

// UnitSeconds maps a duration unit to its fixed second count.
var UnitSeconds = map[string]uint64{
	UnitYear:   YearInSeconds,
	UnitMonth:  MonthInSeconds,
	UnitDay:    DayInSeconds,
	UnitHour:   HourInSeconds,
	UnitMinute: MinuteInSeconds,
}

// DefaultRentalFee seeds the fee schedule on first run, usd cents per year.
var DefaultRentalFee = RentalFee{
	ID:          1,
	OneLetter:   10000,
	TwoLetter:   10000,
	ThreeLetter: 10000,
	FourLetter:  1000,
	Other:       100,
}
