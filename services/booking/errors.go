package booking

import "errors"

// ErrWizardNotFound is returned for unknown or expired wizards.
var ErrWizardNotFound = errors.New("booking wizard not found or expired")

// ErrConflict is returned when a wizard changed between being loaded and
// being saved.
var ErrConflict = errors.New("booking wizard was changed by another request")

// ErrReceiptsUnavailable is returned when no receipt repository is configured.
var ErrReceiptsUnavailable = errors.New("receipts are not available")

// ErrReceiptNotFound is returned when a wizard has no recorded booking.
var ErrReceiptNotFound = errors.New("no booking recorded for wizard")
