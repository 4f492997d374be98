package eligibility

import (
	"sort"

	"go-payroll/internal/employee"

	"github.com/google/uuid"
)

type idSet map[uuid.UUID]struct{}

func newIDSet(ids []uuid.UUID) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) hasPtr(id *uuid.UUID) bool {
	return id != nil && s.has(*id)
}

// Match applies spec to an already active population and keeps its order.
//
// allEmployees wins over everything but exclusions. A non-empty applicableTo is
// the result on its own and every positive filter is ignored.
func Match(population []employee.Employee, spec FilterSpec) []employee.Employee {
	excluded := newIDSet(spec.ExcludedFrom)
	out := make([]employee.Employee, 0, len(population))

	switch {
	case spec.AllEmployees:
		for _, e := range population {
			if !excluded.has(e.ID) {
				out = append(out, e)
			}
		}
	case len(spec.ApplicableTo) > 0:
		include := newIDSet(spec.ApplicableTo)
		for _, e := range population {
			if include.has(e.ID) && !excluded.has(e.ID) {
				out = append(out, e)
			}
		}
	default:
		steps := newIDSet(spec.Steps)
		grades := newIDSet(spec.SalaryGrades)
		jobs := newIDSet(spec.Jobs)
		departments := newIDSet(spec.Departments)
		designations := newIDSet(spec.Designations)

		for _, e := range population {
			if spec.EmploymentType != "" && e.EmploymentType != spec.EmploymentType {
				continue
			}
			if len(steps) > 0 && (e.SalaryGrade == nil || !steps.has(e.SalaryGrade.StepID)) {
				continue
			}
			if len(grades) > 0 && !grades.hasPtr(e.SalaryGradeID) {
				continue
			}
			if len(jobs) > 0 && !jobs.hasPtr(e.JobID) {
				continue
			}
			if len(departments) > 0 && !departments.hasPtr(e.DepartmentID) {
				continue
			}
			if len(designations) > 0 && !designations.hasPtr(e.DesignationID) {
				continue
			}
			if excluded.has(e.ID) {
				continue
			}
			out = append(out, e)
		}
	}

	return out
}

func IDs(employees []employee.Employee) []uuid.UUID {
	ids := make([]uuid.UUID, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	return ids
}

// Diff splits two id sets into added, removed and kept, each sorted for stable writes.
func Diff(previous, next []uuid.UUID) (added, removed, kept []uuid.UUID) {
	prev := newIDSet(previous)
	nxt := newIDSet(next)

	for id := range nxt {
		if prev.has(id) {
			kept = append(kept, id)
		} else {
			added = append(added, id)
		}
	}
	for id := range prev {
		if !nxt.has(id) {
			removed = append(removed, id)
		}
	}

	sortIDs(added)
	sortIDs(removed)
	sortIDs(kept)
	return added, removed, kept
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
