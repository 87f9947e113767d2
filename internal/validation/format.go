package validation

import "strings"

// Formatting helpers mirror what the interactive client does while the user
// types. They are convenience only: formatted output must still pass Validate
// before submission, and nothing here loosens a rule.

// FormatAadhaar groups digits as "1234 5678 9012" for display, capping at 12
// digits.
func FormatAadhaar(value string) string {
	cleaned := keepDigits(value, 12)
	var groups []string
	for i := 0; i < len(cleaned); i += 4 {
		end := i + 4
		if end > len(cleaned) {
			end = len(cleaned)
		}
		groups = append(groups, cleaned[i:end])
	}
	return strings.Join(groups, " ")
}

// FormatPAN uppercases and strips everything that is not a letter or digit.
func FormatPAN(value string) string {
	upper := strings.ToUpper(value)
	var b strings.Builder
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatMobile keeps at most 10 digits.
func FormatMobile(value string) string { return keepDigits(value, 10) }

// FormatOTP keeps at most 6 digits.
func FormatOTP(value string) string { return keepDigits(value, 6) }

// FormatPincode keeps at most 6 digits.
func FormatPincode(value string) string { return keepDigits(value, 6) }

// CleanAadhaar strips display formatting ahead of submission.
func CleanAadhaar(value string) string { return keepDigits(value, -1) }

// CleanMobile strips non-digits ahead of submission.
func CleanMobile(value string) string { return keepDigits(value, -1) }

// CleanOTP strips non-digits ahead of submission.
func CleanOTP(value string) string { return keepDigits(value, -1) }

// CleanPincode strips non-digits ahead of submission.
func CleanPincode(value string) string { return keepDigits(value, -1) }

// CleanPAN strips formatting without changing case; PAN input is expected to
// be uppercased already by FormatPAN.
func CleanPAN(value string) string {
	var b strings.Builder
	for _, r := range value {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigits(value string, max int) string {
	var b strings.Builder
	for _, r := range value {
		if r < '0' || r > '9' {
			continue
		}
		if max >= 0 && b.Len() >= max {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
