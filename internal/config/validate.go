package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults, tidies list values and checks the
// config, returning a normalized copy plus everything worth telling the user.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Derive.SeniorityKeywords = trimList(out.Derive.SeniorityKeywords)

	// ---- Defaults ----

	if len(out.Derive.SeniorityKeywords) == 0 {
		out.Derive.SeniorityKeywords = []string{"Senior", "Junior", "Intern", "Lead", "Manager"}
	}
	if out.Derive.SkillsSeparator == "" {
		out.Derive.SkillsSeparator = "·"
	}
	if out.Derive.JuniorBelowYears == 0 {
		out.Derive.JuniorBelowYears = 2
	}
	if out.Derive.SeniorFromYears == 0 {
		out.Derive.SeniorFromYears = 5
	}
	if out.Session.TTLMinutes == 0 {
		out.Session.TTLMinutes = 60
	}
	if out.Session.SweepSeconds == 0 {
		out.Session.SweepSeconds = 60
	}
	if out.Session.MaxSessions == 0 {
		out.Session.MaxSessions = 16
	}
	if out.Ingest.MaxUploadBytes == 0 {
		out.Ingest.MaxUploadBytes = 32 << 20
	}
	if out.Ingest.UploadsPerMinute == 0 {
		out.Ingest.UploadsPerMinute = 30
	}
	if out.Ingest.UploadBurst == 0 {
		out.Ingest.UploadBurst = 5
	}
	if out.Archive.Keep == 0 {
		out.Archive.Keep = 20
	}
	if out.Store.TimeoutSeconds == 0 {
		out.Store.TimeoutSeconds = 5
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Derive.JuniorBelowYears < 0 {
		res.addErr("derive.junior_below_years must be >= 0")
	}
	if out.Derive.SeniorFromYears < out.Derive.JuniorBelowYears {
		res.addErr("derive.senior_from_years must be >= derive.junior_below_years")
	}
	for i, kw := range out.Derive.SeniorityKeywords {
		if strings.ContainsAny(kw, " \t") {
			res.addErr("derive.seniority_keywords[%d] %q must be a single word", i, kw)
		}
	}

	if out.Session.TTLMinutes < 0 {
		res.addErr("session.ttl_minutes must be >= 0")
	} else if out.Session.TTLMinutes > 0 && out.Session.TTLMinutes < 5 {
		res.addWarn("session.ttl_minutes is very low (%d); dashboards may lose their dataset mid-use.", out.Session.TTLMinutes)
	}
	if out.Session.SweepSeconds <= 0 {
		res.addErr("session.sweep_seconds must be > 0")
	}

	if out.Ingest.MaxUploadBytes < 1024 {
		res.addWarn("ingest.max_upload_bytes is tiny (%d); most CSV uploads will be rejected.", out.Ingest.MaxUploadBytes)
	}
	if out.Ingest.UploadsPerMinute <= 0 {
		res.addErr("ingest.uploads_per_minute must be > 0")
	}
	if out.Ingest.UploadBurst <= 0 {
		res.addErr("ingest.upload_burst must be > 0")
	}

	if out.Archive.Keep < 1 {
		res.addErr("archive.keep must be >= 1")
	}

	if strings.TrimSpace(out.Store.URI) != "" {
		if strings.TrimSpace(out.Store.Database) == "" {
			res.addErr("store.database is required when store.uri is set")
		}
		if strings.TrimSpace(out.Store.Collection) == "" {
			res.addErr("store.collection is required when store.uri is set")
		}
		if out.Store.TimeoutSeconds <= 0 {
			res.addErr("store.timeout_seconds must be > 0")
		}
	}

	return out, res
}
