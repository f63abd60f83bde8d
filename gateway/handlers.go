package gateway

import (
	"group-chat/auth"
	"group-chat/domain"
	"group-chat/errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

func requester(r *http.Request) string {
	userID, _ := auth.UserIDFrom(r.Context())
	return userID
}

func pathID(r *http.Request) domain.ChatID {
	return domain.ChatID(mux.Vars(r)["id"])
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var body newGroupRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	chat, err := s.chats.CreateGroup(r.Context(), body.Name, requester(r), body.Members)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Group created",
		"chat":    toChatView(chat),
	})
}

func (s *Server) getMyChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.chats.GetMyChats(r.Context(), requester(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chats": chats})
}

func (s *Server) getMyGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.chats.GetMyGroups(r.Context(), requester(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "groups": groups})
}

func (s *Server) addMembers(w http.ResponseWriter, r *http.Request) {
	var body addMembersRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	chat, err := s.chats.AddMembers(r.Context(), domain.ChatID(body.ChatID), requester(r), body.Members)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Members added successfully",
		"chat":    toChatView(chat),
	})
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	var body removeMemberRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	chat, err := s.chats.RemoveMember(r.Context(), domain.ChatID(body.ChatID), requester(r), body.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Member removed successfully",
		"chat":    toChatView(chat),
	})
}

func (s *Server) leaveGroup(w http.ResponseWriter, r *http.Request) {
	if _, err := s.chats.LeaveGroup(r.Context(), pathID(r), requester(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Leave group successfully"})
}

func (s *Server) openDirectChat(w http.ResponseWriter, r *http.Request) {
	var body directRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	chat, err := s.chats.OpenDirectChat(r.Context(), requester(r), body.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chat": toChatView(chat)})
}

// sendAttachments reads a multipart form with a chatId field and up to five "files" parts.
func (s *Server) sendAttachments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		s.writeError(w, r, errors.Validation("Invalid or too large upload"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	chatID := r.FormValue("chatId")
	if chatID == "" {
		s.writeError(w, r, errors.Validation("Invalid field chatId: required"))
		return
	}
	files, err := readFiles(r.MultipartForm.File["files"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	posted, err := s.messages.SendAttachments(r.Context(), domain.ChatID(chatID), requester(r), files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": toMessageView(posted.Message)})
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, errors.Validation("Invalid field page: numeric"))
			return
		}
		page = parsed
	}
	result, err := s.messages.ListPage(r.Context(), pathID(r), requester(r), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"messages":   lo.Map(result.Messages, func(m domain.Message, _ int) messageView { return toMessageView(m) }),
		"totalPages": result.TotalPages,
	})
}

func (s *Server) getChatDetails(w http.ResponseWriter, r *http.Request) {
	populate := r.URL.Query().Get("populate") == "true"
	details, err := s.chats.GetChatDetails(r.Context(), pathID(r), requester(r), populate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chat": toDetailsView(details)})
}

func (s *Server) renameGroup(w http.ResponseWriter, r *http.Request) {
	var body renameRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.chats.RenameGroup(r.Context(), pathID(r), requester(r), body.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Group renamed successfully"})
}

func (s *Server) deleteChat(w http.ResponseWriter, r *http.Request) {
	if err := s.chats.DeleteChat(r.Context(), pathID(r), requester(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Chat deleted successfully"})
}

func readFiles(headers []*multipart.FileHeader) ([]domain.File, error) {
	files := make([]domain.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, domain.File{Name: header.Filename, Data: data})
	}
	return files, nil
}
