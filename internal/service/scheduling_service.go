package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rx-line/internal/domain"
	"rx-line/internal/email"
	"rx-line/internal/line"
	"rx-line/internal/llm"
	"rx-line/internal/repository"
)

const loadingSeconds = 20

// Messenger es la parte de la Messaging API que usa el flujo.
type Messenger interface {
	Reply(ctx context.Context, replyToken string, messages ...line.Message) error
	StartLoading(ctx context.Context, chatID string, seconds int) error
	GetContent(ctx context.Context, messageID string) (line.Content, error)
	GetProfile(ctx context.Context, userID string) (line.Profile, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// SchedulingService conduce la conversación de receta: imagen, horario de
// orientación y horario de entrega.
type SchedulingService struct {
	messenger     Messenger
	uploader      ImageUploader
	vision        llm.VisionClient
	sessions      repository.SessionStore
	locker        repository.UserLocker
	prescriptions repository.PrescriptionRepository
	notifier      email.Sender
	tasks         *TaskRunner
	limiter       repository.AnalysisLimiter
	allowList     []string
	logger        *zap.Logger
}

func NewSchedulingService(
	messenger Messenger,
	uploader ImageUploader,
	vision llm.VisionClient,
	sessions repository.SessionStore,
	locker repository.UserLocker,
	prescriptions repository.PrescriptionRepository,
	notifier email.Sender,
	tasks *TaskRunner,
	logger *zap.Logger,
) *SchedulingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tasks == nil {
		tasks = NewTaskRunner(logger)
	}
	if notifier == nil {
		notifier = email.NewDisabledSender("no notifier configured")
	}
	return &SchedulingService{
		messenger:     messenger,
		uploader:      uploader,
		vision:        vision,
		sessions:      sessions,
		locker:        locker,
		prescriptions: prescriptions,
		notifier:      notifier,
		tasks:         tasks,
		allowList:     MedicineAllowList,
		logger:        logger,
	}
}

// WithAllowList reemplaza la lista de medicamentos soportados.
func (s *SchedulingService) WithAllowList(items []string) *SchedulingService {
	s.allowList = items
	return s
}

// WithAnalysisLimiter activa el límite de imágenes por usuario.
func (s *SchedulingService) WithAnalysisLimiter(limiter repository.AnalysisLimiter) *SchedulingService {
	s.limiter = limiter
	return s
}

// HandleText responde con el mismo texto recibido.
func (s *SchedulingService) HandleText(ctx context.Context, ev domain.WebhookEvent) error {
	if ev.Message == nil {
		return nil
	}
	s.startLoading(ctx, ev.UserID())
	if ev.ReplyToken == "" {
		return nil
	}
	if err := s.messenger.Reply(ctx, ev.ReplyToken, line.NewTextMessage(ev.Message.Text)); err != nil {
		return fmt.Errorf("reply echo: %w", err)
	}
	return nil
}

// HandleImage sube la receta, extrae los medicamentos y abre la sesión.
// Una imagen nueva siempre reinicia el flujo del usuario.
func (s *SchedulingService) HandleImage(ctx context.Context, ev domain.WebhookEvent) error {
	userID := ev.UserID()
	if userID == "" || ev.Message == nil {
		s.logger.Debug("image event without user or message", zap.String("event_id", ev.WebhookEventID))
		return nil
	}
	// Se cuenta antes de llamar a las APIs externas: un intento fallido también consume cupo.
	if s.limiter != nil && !s.limiter.Allow(ctx, userID) {
		s.logger.Info("image analysis rate limited", zap.String("user_id", userID))
		if ev.ReplyToken == "" {
			return nil
		}
		if err := s.messenger.Reply(ctx, ev.ReplyToken, line.NewTextMessage(rateLimitedReply)); err != nil {
			return fmt.Errorf("reply rate limited: %w", err)
		}
		return nil
	}
	s.startLoading(ctx, userID)

	content, err := s.messenger.GetContent(ctx, ev.Message.ID)
	if err != nil {
		return fmt.Errorf("fetch image content: %w", err)
	}

	filename := fmt.Sprintf("%s-%d.png", ev.Message.ID, ev.Timestamp)
	var imageURL, medicines string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.uploader.Upload(gctx, filename, content.Data, content.ContentType)
		if err != nil {
			return fmt.Errorf("upload image: %w", err)
		}
		imageURL = url
		return nil
	})
	g.Go(func() error {
		text, err := s.vision.AnalyzeImage(gctx, PrescriptionPrompt, content.Data, content.ContentType)
		if err != nil {
			return fmt.Errorf("analyze image: %w", err)
		}
		medicines = cleanMedicineList(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	session, err := domain.NewAwaitingFirstSelection(imageURL)
	if err != nil {
		return err
	}
	if err := s.withUserLock(ctx, userID, func() error {
		return s.sessions.Put(ctx, userID, session)
	}); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	supported := IsSupportedPrescription(medicines, s.allowList)
	s.logger.Info("prescription analyzed",
		zap.String("user_id", userID),
		zap.String("image_url", imageURL),
		zap.Bool("supported", supported),
	)
	if ev.ReplyToken == "" {
		return nil
	}
	if err := s.messenger.Reply(ctx, ev.ReplyToken,
		line.NewTextMessage(analysisReply(medicines, supported)),
		GuidanceMenu(),
	); err != nil {
		return fmt.Errorf("reply analysis: %w", err)
	}
	return nil
}

// HandlePostback avanza la sesión con el horario elegido.
func (s *SchedulingService) HandlePostback(ctx context.Context, ev domain.WebhookEvent) error {
	userID := ev.UserID()
	if userID == "" || ev.Postback == nil {
		return nil
	}
	selection, err := ParsePostback(ev.Postback.Data)
	if err != nil {
		return err
	}

	var (
		reply     []line.Message
		finalized *domain.Prescription
	)
	err = s.withUserLock(ctx, userID, func() error {
		current, err := s.sessions.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		switch current.Stage() {
		case domain.StageAwaitingFirstSelection:
			next, err := current.WithGuidance(selection.Label)
			if err != nil {
				return err
			}
			if err := s.sessions.Put(ctx, userID, next); err != nil {
				return fmt.Errorf("store session: %w", err)
			}
			reply = []line.Message{line.NewTextMessage(guidanceSelectedReply(selection.Label)), DeliveryMenu()}
		case domain.StageAwaitingFinalization:
			if err := s.sessions.Delete(ctx, userID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			reply = []line.Message{line.NewTextMessage(finalReply(current.GuidanceTime(), selection.Label))}
			finalized = &domain.Prescription{
				UserID:               userID,
				PrescriptionImageURL: current.ImageURL(),
				OnlineGuidanceTime:   current.GuidanceTime(),
				MedicineDeliveryTime: selection.Label,
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(reply) == 0 {
		return nil
	}

	var replyErr error
	if ev.ReplyToken != "" {
		replyErr = s.messenger.Reply(ctx, ev.ReplyToken, reply...)
	}
	if finalized != nil {
		record := *finalized
		s.tasks.Go(ctx, "record_prescription", func(ctx context.Context) error {
			return s.recordPrescription(ctx, record)
		})
	}
	if replyErr != nil {
		return fmt.Errorf("reply selection: %w", replyErr)
	}
	return nil
}

// recordPrescription guarda la fila de auditoría y avisa al farmacéutico.
func (s *SchedulingService) recordPrescription(ctx context.Context, record domain.Prescription) error {
	profile, err := s.messenger.GetProfile(ctx, record.UserID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	record.UserName = profile.DisplayName

	saved, err := s.prescriptions.Create(ctx, record)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	s.logger.Info("prescription recorded",
		zap.Int64("prescription_id", saved.ID),
		zap.String("user_id", saved.UserID),
	)

	if err := s.notifier.SendPrescriptionNotice(ctx, saved); err != nil {
		if errors.Is(err, email.ErrSenderDisabled) {
			s.logger.Debug("pharmacist notice skipped", zap.Error(err))
			return nil
		}
		s.logger.Warn("pharmacist notice failed", zap.Error(err), zap.Int64("prescription_id", saved.ID))
	}
	return nil
}

func (s *SchedulingService) withUserLock(ctx context.Context, userID string, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	defer unlock()
	return fn()
}

func (s *SchedulingService) startLoading(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	s.tasks.Go(ctx, "loading_indicator", func(ctx context.Context) error {
		return s.messenger.StartLoading(ctx, userID, loadingSeconds)
	})
}
