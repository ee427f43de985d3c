package analytics

import (
	"github.com/google/uuid"
	"github.com/groundplan/backend/internal/domain/report"
	"github.com/groundplan/backend/internal/domain/shared"
)

// ResolveScope narrows a report request to the projects the caller may
// see. requestedProjectID is the raw query value; an empty or malformed
// id means "no specific project". A member with no assignments gets a
// scope that matches nothing, never the whole tenant.
func ResolveScope(caller Caller, requestedProjectID string) (report.ProjectScope, error) {
	var requested *uuid.UUID
	if requestedProjectID != "" {
		if id, err := uuid.Parse(requestedProjectID); err == nil {
			requested = &id
		}
	}

	if caller.IsAdmin() {
		if requested == nil {
			return report.ScopeAll(), nil
		}
		return report.ScopeProjects(*requested), nil
	}

	if len(caller.ProjectIDs) == 0 {
		return report.ScopeNone(), nil
	}

	if requested == nil {
		return report.ScopeProjects(caller.ProjectIDs...), nil
	}

	if !caller.IsAssigned(*requested) {
		return report.ProjectScope{}, shared.ErrForbidden
	}
	return report.ScopeProjects(*requested), nil
}
