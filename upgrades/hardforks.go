package upgrades

import "time"

// Activation times of consensus rule changes
var (
	// EmptyWhitelistTime lets an asset with an empty whitelist authority set authorize everyone
	EmptyWhitelistTime = time.Unix(1446652800, 0).UTC()
	// FeeAssetAuthTime requires the fee payer to be authorized to hold the fee asset
	FeeAssetAuthTime = time.Unix(1446652800, 0).UTC()
	// ReferrerPercentTime ends the rescaling of small referrer percentages on account creation
	ReferrerPercentTime = time.Unix(1450288800, 0).UTC()
	// TransferFeeModesTime enables transfer_v2 and core asset market fee updates
	TransferFeeModesTime = time.Unix(1546300800, 0).UTC()
	// CoinSecondsFeesTime enables paying fees with accumulated coin-seconds
	CoinSecondsFeesTime = time.Unix(1546300800, 0).UTC()
)

// IsActive reports whether a rule change scheduled at activation is in effect at now
func IsActive(activation, now time.Time) bool {
	return now.After(activation)
}
