package store

import (
	"strings"

	"tillpoint/internal/domain"
)

// MergeProducts reconciles the local product cache against the remote
// collection. The remote is the source of truth; local records absent
// remotely (matched by code when both sides have one, else by name,
// case-insensitive) come back in toUpload so the adapter can re-create
// them remotely. unified is remote plus the still-local records, and
// becomes the new local cache.
func MergeProducts(local, remote []domain.Product) (unified, toUpload []domain.Product) {
	unified = append(unified, remote...)

	for _, lp := range local {
		if existsRemotely(lp, remote) {
			continue
		}
		toUpload = append(toUpload, lp)
		unified = append(unified, lp)
	}
	return unified, toUpload
}

// StripClientFields clears the fields that only exist client-side
// (temporary id, timestamp, sync marker) before a record is re-uploaded.
func StripClientFields(p domain.Product) domain.Product {
	p.ID = 0
	p.CreatedAt = ""
	p.Sync = ""
	return p
}

func existsRemotely(lp domain.Product, remote []domain.Product) bool {
	for _, rp := range remote {
		if lp.Code != "" && rp.Code != "" && strings.EqualFold(lp.Code, rp.Code) {
			return true
		}
		if strings.EqualFold(lp.Name, rp.Name) {
			return true
		}
	}
	return false
}
