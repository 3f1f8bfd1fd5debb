package utils

func ContainsString(slice []string, searchTerm string) bool {
	for _, s := range slice {
		if searchTerm == s {
			return true
		}
	}
	return false
}

// PickLanguage returns preferred if the campaign covers it, otherwise the
// fallback language.
func PickLanguage(available []string, preferred string, fallback string) string {
	if ContainsString(available, preferred) {
		return preferred
	}
	return fallback
}
