package utils

import "time"

// WizardCachePrefix is the prefix used for Redis wizard session keys.
const WizardCachePrefix = "wizard:"

// SubmitLockSuffix is appended to a wizard key to form its submit lock key.
const SubmitLockSuffix = ":submit"

// DefaultWizardTTL is how long an idle wizard is kept.
const DefaultWizardTTL = 30 * time.Minute
