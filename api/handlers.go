package api

import (
	"net/http"

	"github.com/DKingAlpha/NxDmntASM/cheatfile"
)

// handleDmntAsm handles POST /dmnt_asm: converts cheat-text source into
// uppercase hex machine code, one instruction per line.
func (s *Server) handleDmntAsm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ConvertRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var errs []string
	f := cheatfile.Load(req.Text, func(err error) { errs = append(errs, err.Error()) })
	f.Assemble("dmnt_asm", func(err error) { errs = append(errs, err.Error()) })

	writeJSON(w, http.StatusOK, ConvertResponse{
		Success: len(errs) == 0,
		Output:  f.Dump(s.indent, true),
		Errors:  errs,
	})
}

// handleDmntDism handles POST /dmnt_dism: converts hex machine code
// into indented, human-readable cheat-assembly syntax.
func (s *Server) handleDmntDism(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ConvertRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var errs []string
	f := cheatfile.Load(req.Text, func(err error) { errs = append(errs, err.Error()) })
	f.Disassemble("dmnt_dism", func(err error) { errs = append(errs, err.Error()) })

	writeJSON(w, http.StatusOK, ConvertResponse{
		Success: len(errs) == 0,
		Output:  f.Dump(s.indent, false),
		Errors:  errs,
	})
}
