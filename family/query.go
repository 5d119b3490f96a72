package family

import (
	"strings"

	"github.com/camden-git/familyring/codes"
	"github.com/camden-git/familyring/models"
)

// Search returns copies of the people whose name, code or ring lineage contains
// query, ignoring case. An empty query matches everyone.
func (s *Service) Search(query string) []*models.Person {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*models.Person
	for _, p := range s.reg.All() {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Code), q) ||
			strings.Contains(strings.ToLower(p.RingLineage), q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Stats summarizes the registry for the statistics view.
type Stats struct {
	Total        int            `json:"total"`
	Generations  int            `json:"generations"`
	ByGeneration map[int]int    `json:"by_generation"`
	ByGender     map[string]int `json:"by_gender"`
	Partners     int            `json:"partners"`
	RingCarriers int            `json:"ring_carriers"`
	Deceased     int            `json:"deceased"`
}

// Stats counts people by generation and gender, partner records, people with
// an inheritance source, and recorded deaths.
func (s *Service) Stats() Stats {
	st := Stats{ByGeneration: map[int]int{}, ByGender: map[string]int{}}
	for _, p := range s.reg.All() {
		st.Total++
		st.ByGeneration[p.Generation]++
		gender := string(p.Gender)
		if gender == "" {
			gender = "unknown"
		}
		st.ByGender[gender]++
		if codes.IsPartner(p.Code) {
			st.Partners++
		}
		if p.InheritedFromCode != "" {
			st.RingCarriers++
		}
		if p.DeathDate != "" {
			st.Deceased++
		}
		if p.Generation > st.Generations {
			st.Generations = p.Generation
		}
	}
	return st
}

// TreeNode is the structural view handed to tree renderers. Layout is left to
// the renderer.
type TreeNode struct {
	Person   *models.Person `json:"person"`
	Partner  *models.Person `json:"partner,omitempty"`
	Children []*TreeNode    `json:"children,omitempty"`
}

// Tree returns the forest of people without a parent. Partner records hang off
// the person they partner instead of forming roots of their own.
func (s *Service) Tree() []*TreeNode {
	var roots []*TreeNode
	for _, p := range s.reg.All() {
		if p.ParentCode != "" && s.reg.Has(p.ParentCode) {
			continue
		}
		if codes.IsPartner(p.Code) && s.reg.Has(p.PartnerCode) {
			continue
		}
		roots = append(roots, s.treeNode(p, 0))
	}
	return roots
}

func (s *Service) treeNode(p *models.Person, depth int) *TreeNode {
	node := &TreeNode{Person: p.Clone()}
	if partner := s.reg.Find(p.PartnerCode); partner != nil && codes.IsPartner(partner.Code) {
		node.Partner = partner.Clone()
	}
	if depth > s.reg.Len() {
		return node
	}
	for _, child := range sortedByBirth(s.reg.ChildrenOf(p.Code)) {
		node.Children = append(node.Children, s.treeNode(child, depth+1))
	}
	return node
}
