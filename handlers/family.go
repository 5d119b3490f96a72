package handlers

import (
	"net/http"

	"github.com/camden-git/familyring/family"
	"github.com/camden-git/familyring/workspace"
)

type FamilyHandler struct {
	WS *workspace.Workspace
}

func (fh *FamilyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fh.WS.Stats())
}

func (fh *FamilyHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roots := fh.WS.Tree()
	if roots == nil {
		roots = []*family.TreeNode{}
	}
	writeJSON(w, http.StatusOK, roots)
}

type historyResponse struct {
	Applied bool `json:"applied"`
	Undo    int  `json:"undo"`
	Redo    int  `json:"redo"`
}

func (fh *FamilyHandler) History(w http.ResponseWriter, r *http.Request) {
	fh.writeHistory(w, false)
}

func (fh *FamilyHandler) Undo(w http.ResponseWriter, r *http.Request) {
	applied, err := fh.WS.Undo()
	if err != nil {
		writeDomainError(w, "undo", err)
		return
	}
	fh.writeHistory(w, applied)
}

func (fh *FamilyHandler) Redo(w http.ResponseWriter, r *http.Request) {
	applied, err := fh.WS.Redo()
	if err != nil {
		writeDomainError(w, "redo", err)
		return
	}
	fh.writeHistory(w, applied)
}

func (fh *FamilyHandler) writeHistory(w http.ResponseWriter, applied bool) {
	undo, redo, err := fh.WS.HistorySizes()
	if err != nil {
		writeDomainError(w, "read history", err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Applied: applied, Undo: undo, Redo: redo})
}
