package style

import "strings"

func init() {
	RegisterDocRule(LicenseNotice)
}

// LicenseNotice requires the course license line in every guide.
var LicenseNotice = DocRule{
	ID:          "DC04",
	Name:        "doc.license_notice",
	Description: "Guide documents must carry the course license notice.",
	Severity:    SeverityError,
	Check:       checkLicenseNotice,
}

func checkLicenseNotice(doc Document, opts Options) []Diagnostic {
	notice := opts.LicenseNotice
	if notice == "" {
		notice = DefaultOptions().LicenseNotice
	}

	for _, line := range doc.Lines {
		if strings.Contains(line, notice) {
			return nil
		}
	}
	return []Diagnostic{{
		RuleID:   "DC04",
		Severity: SeverityError,
		Message:  "missing license notice \"" + notice + "\"",
		File:     doc.Path,
	}}
}
