package utils

import "strings"

// MaskEmail masks the local part of an email address for log output,
// keeping the first and last character. "jsmith@corp.example" becomes
// "j****h@corp.example".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}
