package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"friendica_api/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MailBox 私信列表类型
type MailBox int

const (
	MailInbox MailBox = iota
	MailSent
	MailAll
	MailConversation
)

// MailQuery 私信列表查询
type MailQuery struct {
	Box       MailBox
	UID       int64
	SelfURL   string // 用于区分收件与发件
	ParentURI string // MailConversation 时必填
	SinceID   int64
	MaxID     int64
	Count     int
	Page      int
}

// NewMail 发送私信
type NewMail struct {
	UID       int64
	Sender    *model.Contact // 发送者自己的联系人记录
	Recipient *model.Contact // 发送者视图下的收件人
	Title     string
	Body      string
	ReplyTo   *model.Mail // 回复的私信，可为空
}

type MailService struct {
	db      *gorm.DB
	queue   DeliveryQueue
	baseURL string
}

func NewMailService(db *gorm.DB, queue DeliveryQueue, baseURL string) *MailService {
	return &MailService{db: db, queue: queue, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *MailService) listQuery(tx *gorm.DB, q MailQuery) *gorm.DB {
	db := tx.Model(&model.Mail{}).Where("uid = ?", q.UID)

	switch q.Box {
	case MailInbox:
		db = db.Where(`"from-url" <> ?`, q.SelfURL)
	case MailSent:
		db = db.Where(`"from-url" = ?`, q.SelfURL)
	case MailConversation:
		db = db.Where(`"parent-uri" = ?`, q.ParentURI)
	}

	if q.SinceID > 0 {
		db = db.Where("id > ?", q.SinceID)
	}
	if q.MaxID > 0 {
		db = db.Where("id <= ?", q.MaxID)
	}

	return db.Order("id DESC").Limit(q.Count).Offset(pageOffset(q.Page, q.Count))
}

// List 按 ID 倒序返回私信
func (s *MailService) List(ctx context.Context, q MailQuery) ([]model.Mail, error) {
	var mails []model.Mail
	if err := s.listQuery(s.db.WithContext(ctx), q).Find(&mails).Error; err != nil {
		return nil, fmt.Errorf("failed to query mails: %w", err)
	}
	return mails, nil
}

// MarkSeen 标记为已读
func (s *MailService) MarkSeen(ctx context.Context, uid int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&model.Mail{}).
		Where("uid = ? AND id IN ? AND seen = false", uid, ids).
		Update("seen", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark mails seen: %w", err)
	}
	return nil
}

// MailByID 用户自己的私信
func (s *MailService) MailByID(ctx context.Context, uid, id int64) (*model.Mail, error) {
	var mail model.Mail
	return first(s.db.WithContext(ctx).Where("uid = ? AND id = ?", uid, id), &mail)
}

// Send 保存私信并加入投递队列
// 新私信同时创建会话；回复沿用原会话与 parent-uri
func (s *MailService) Send(ctx context.Context, m NewMail) (*model.Mail, error) {
	guid := uuid.NewString()
	uri := s.baseURL + "/objects/" + guid

	title := m.Title
	if m.ReplyTo != nil && title == "" {
		title = m.ReplyTo.Title
		if !strings.HasPrefix(title, "Re:") {
			title = "Re: " + title
		}
	}
	if title == "" {
		title = DefaultMailTitle(m.Body)
	}

	mail := &model.Mail{
		UID:       m.UID,
		GUID:      guid,
		ContactID: m.Recipient.ID,
		FromName:  m.Sender.Name,
		FromPhoto: m.Sender.Photo,
		FromURL:   m.Sender.URL,
		Title:     title,
		Body:      m.Body,
		Seen:      true,
		Reply:     m.ReplyTo != nil,
		URI:       uri,
		ParentURI: uri,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.ReplyTo != nil {
			mail.ConvID = m.ReplyTo.ConvID
			mail.ParentURI = m.ReplyTo.ParentURI
		} else {
			conv := &model.Conversation{
				UID:     m.UID,
				GUID:    guid,
				Creator: m.Sender.URL,
				Recips:  m.Sender.URL + ";" + m.Recipient.URL,
				Subject: title,
			}
			if err := tx.Create(conv).Error; err != nil {
				return fmt.Errorf("failed to create conversation: %w", err)
			}
			mail.ConvID = conv.ID
		}

		if err := tx.Create(mail).Error; err != nil {
			return fmt.Errorf("failed to create mail: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 写入投递队列失败只记录日志，私信已保存
	if s.queue != nil {
		job := DeliveryJob{
			MailID:    mail.ID,
			UID:       m.UID,
			ContactID: m.Recipient.ID,
			GUID:      guid,
			Network:   m.Recipient.Network,
			QueuedAt:  time.Now().UTC(),
		}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("mail_id", mail.ID).Msg("failed to queue mail delivery")
		}
	}

	return mail, nil
}

// Delete 删除私信，parentURI 非空时必须匹配
func (s *MailService) Delete(ctx context.Context, uid, id int64, parentURI string) (bool, error) {
	db := s.db.WithContext(ctx).Where("uid = ? AND id = ?", uid, id)
	if parentURI != "" {
		db = db.Where(`"parent-uri" = ?`, parentURI)
	}

	result := db.Delete(&model.Mail{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete mail: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DefaultMailTitle 没有标题时取正文前 10 个字符
func DefaultMailTitle(body string) string {
	if utf8.RuneCountInString(body) <= 10 {
		return body
	}
	return string([]rune(body)[:10]) + "..."
}
