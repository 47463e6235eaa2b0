package handler

import (
	"context"
	"strconv"

	"friendica_api/api"
	"friendica_api/apperr"
	"friendica_api/format"
	"friendica_api/model"
	"friendica_api/service"
)

// DirectMessage 旧版 API 的私信对象
type DirectMessage struct {
	ID                  int64  `json:"id"`
	IDStr               string `json:"id_str"`
	SenderID            int64  `json:"sender_id"`
	SenderIDStr         string `json:"sender_id_str"`
	Text                string `json:"text"`
	RecipientID         int64  `json:"recipient_id"`
	RecipientIDStr      string `json:"recipient_id_str"`
	CreatedAt           string `json:"created_at"`
	SenderScreenName    string `json:"sender_screen_name"`
	RecipientScreenName string `json:"recipient_screen_name"`
	Sender              *User  `json:"sender"`
	Recipient           *User  `json:"recipient"`
	Title               string `json:"title"`
	FriendicaSeen       bool   `json:"friendica_seen"`
	FriendicaParentURI  string `json:"friendica_parent_uri"`
}

// verboseResult friendica_verbose=true 时返回的状态
type verboseResult struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// MessageHandler direct_messages/*
type MessageHandler struct {
	contacts ContactStore
	mails    MailStore
	users    *UserRenderer
}

func NewMessageHandler(contacts ContactStore, mails MailStore, users *UserRenderer) *MessageHandler {
	return &MessageHandler{contacts: contacts, mails: mails, users: users}
}

func (h *MessageHandler) selfContact(ctx context.Context, req *api.Request) (*model.Contact, error) {
	self, err := h.contacts.SelfContact(ctx, req.ViewerID())
	if err != nil {
		return nil, err
	}
	if self == nil {
		return nil, apperr.NotFound("User not found")
	}
	return self, nil
}

func (h *MessageHandler) list(ctx context.Context, req *api.Request, box service.MailBox, parentURI string) (*api.Result, error) {
	self, err := h.selfContact(ctx, req)
	if err != nil {
		return nil, err
	}

	p, err := parseListParams(req)
	if err != nil {
		return nil, err
	}

	mails, err := h.mails.List(ctx, service.MailQuery{
		Box:       box,
		UID:       req.ViewerID(),
		SelfURL:   self.URL,
		ParentURI: parentURI,
		SinceID:   p.SinceID,
		MaxID:     p.MaxID,
		Count:     p.Count,
		Page:      p.Page,
	})
	if err != nil {
		return nil, err
	}

	if len(mails) == 0 && req.BoolParam("friendica_verbose") {
		return api.NewResult("direct_messages", verboseResult{Result: "error", Message: "no mails available"}), nil
	}

	messages, err := h.render(ctx, req, self, mails)
	if err != nil {
		return nil, err
	}

	// 列出后标记为已读
	unseen := make([]int64, 0, len(mails))
	for _, m := range mails {
		if !m.Seen {
			unseen = append(unseen, m.ID)
		}
	}
	if err := h.mails.MarkSeen(ctx, req.ViewerID(), unseen); err != nil {
		return nil, err
	}

	return &api.Result{Root: "direct-messages", Key: "direct_message", Value: messages}, nil
}

func (h *MessageHandler) render(ctx context.Context, req *api.Request, self *model.Contact, mails []model.Mail) ([]*DirectMessage, error) {
	me, err := h.users.User(ctx, req.Viewer, self)
	if err != nil {
		return nil, err
	}

	peers := make(map[int64]*User)
	messages := make([]*DirectMessage, 0, len(mails))
	for i := range mails {
		m := &mails[i]

		peer, ok := peers[m.ContactID]
		if !ok {
			contact, err := h.contacts.ContactByID(ctx, m.ContactID)
			if err != nil {
				return nil, err
			}
			if contact != nil {
				if peer, err = h.users.User(ctx, req.Viewer, contact); err != nil {
					return nil, err
				}
			}
			peers[m.ContactID] = peer
		}
		if peer == nil {
			peer = &User{Name: m.FromName, ScreenName: m.FromName, ProfileImageURL: m.FromPhoto, URL: m.FromURL}
		}

		sender, recipient := peer, me
		if m.FromURL == self.URL {
			sender, recipient = me, peer
		}
		messages = append(messages, newDirectMessage(m, sender, recipient, req.Param("getText")))
	}
	return messages, nil
}

func newDirectMessage(m *model.Mail, sender, recipient *User, getText string) *DirectMessage {
	text := m.Body
	if getText == "" {
		text = m.Title + "\n" + m.Body
	}

	return &DirectMessage{
		ID:                  m.ID,
		IDStr:               strconv.FormatInt(m.ID, 10),
		SenderID:            sender.ID,
		SenderIDStr:         strconv.FormatInt(sender.ID, 10),
		Text:                text,
		RecipientID:         recipient.ID,
		RecipientIDStr:      strconv.FormatInt(recipient.ID, 10),
		CreatedAt:           format.Date(m.CreatedAt),
		SenderScreenName:    sender.ScreenName,
		RecipientScreenName: recipient.ScreenName,
		Sender:              sender,
		Recipient:           recipient,
		Title:               m.Title,
		FriendicaSeen:       m.Seen,
		FriendicaParentURI:  m.ParentURI,
	}
}

// Inbox direct_messages
func (h *MessageHandler) Inbox(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.list(ctx, req, service.MailInbox, "")
}

// Sent direct_messages/sent
func (h *MessageHandler) Sent(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.list(ctx, req, service.MailSent, "")
}

// All direct_messages/all
func (h *MessageHandler) All(ctx context.Context, req *api.Request) (*api.Result, error) {
	return h.list(ctx, req, service.MailAll, "")
}

// Conversation direct_messages/conversation?uri=
func (h *MessageHandler) Conversation(ctx context.Context, req *api.Request) (*api.Result, error) {
	uri := req.Param("uri")
	if uri == "" {
		return nil, apperr.BadRequest("Parameter uri is missing")
	}
	return h.list(ctx, req, service.MailConversation, uri)
}

// New direct_messages/new，收件人为调用者视图下的联系人
func (h *MessageHandler) New(ctx context.Context, req *api.Request) (*api.Result, error) {
	text := req.Param("text")
	userID, err := req.Int64Param("user_id", 0)
	if err != nil {
		return nil, err
	}
	screenName := req.Param("screen_name")
	if text == "" || (userID == 0 && screenName == "") {
		return nil, apperr.BadRequest("Recipient and text are required")
	}

	self, err := h.selfContact(ctx, req)
	if err != nil {
		return nil, err
	}

	var recipient *model.Contact
	if userID != 0 {
		recipient, err = h.contacts.ContactByID(ctx, userID)
	} else {
		recipient, err = h.contacts.ContactByNick(ctx, req.ViewerID(), screenName)
	}
	if err != nil {
		return nil, err
	}
	if recipient == nil || recipient.UID != req.ViewerID() || recipient.Self || recipient.Deleted {
		return nil, apperr.NotFound("Recipient not found")
	}

	var replyTo *model.Mail
	if replyID, err := req.Int64Param("replyto", 0); err != nil {
		return nil, err
	} else if replyID > 0 {
		if replyTo, err = h.mails.MailByID(ctx, req.ViewerID(), replyID); err != nil {
			return nil, err
		}
		if replyTo == nil {
			return nil, apperr.NotFound("Message not found")
		}
	}

	mail, err := h.mails.Send(ctx, service.NewMail{
		UID:       req.ViewerID(),
		Sender:    self,
		Recipient: recipient,
		Title:     req.Param("title"),
		Body:      text,
		ReplyTo:   replyTo,
	})
	if err != nil {
		return nil, err
	}

	messages, err := h.render(ctx, req, self, []model.Mail{*mail})
	if err != nil {
		return nil, err
	}
	return &api.Result{Root: "direct-messages", Key: "direct_message", Value: messages[0]}, nil
}

// Destroy direct_messages/destroy
func (h *MessageHandler) Destroy(ctx context.Context, req *api.Request) (*api.Result, error) {
	id, err := req.Int64Param("id", 0)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, apperr.BadRequest("Message id not specified")
	}

	deleted, err := h.mails.Delete(ctx, req.ViewerID(), id, req.Param("friendica_parenturi"))
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, apperr.NotFound("Message id not in database")
	}

	return &api.Result{
		Root:  "direct_messages_delete",
		Key:   "result",
		Value: verboseResult{Result: "ok", Message: "message deleted"},
	}, nil
}
