package transfer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"retifica/internal/service/workflow"
	"retifica/internal/storage"
)

var ErrInvalidPayload = errors.New("invalid import payload")

// DecodeJSON разбирает JSON-массив и проверяет каждый элемент.
// Любая ошибка прерывает импорт целиком, до записи в базу.
func DecodeJSON[T any](r io.Reader, validate func(i int, item T) error) ([]T, error) {
	const op = "service.transfer.DecodeJSON"

	var items []T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%s: %w: trailing data after array", op, ErrInvalidPayload)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w: empty array", op, ErrInvalidPayload)
	}

	if validate != nil {
		for i, it := range items {
			if err := validate(i, it); err != nil {
				return nil, fmt.Errorf("%s: %w: item %d: %v", op, ErrInvalidPayload, i, err)
			}
		}
	}
	return items, nil
}

func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	const op = "service.transfer.WriteCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type Storage interface {
	SaveClients(ctx context.Context, clients []storage.Client) error
	SaveMotors(ctx context.Context, motors []storage.Motor) error
}

type Service struct {
	storage Storage
	now     func() time.Time
}

func New(storage Storage) *Service {
	return &Service{storage: storage, now: time.Now}
}

func validateClient(_ int, c storage.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateMotor(_ int, m storage.Motor) error {
	if m.ClientID == "" {
		return errors.New("client_id is required")
	}
	if strings.TrimSpace(m.Brand) == "" && strings.TrimSpace(m.Model) == "" {
		return errors.New("brand or model is required")
	}
	return nil
}

// ImportClients: всё или ничего: сохраняется одной транзакцией.
func (s *Service) ImportClients(ctx context.Context, r io.Reader) (int, error) {
	const op = "service.transfer.ImportClients"

	clients, err := DecodeJSON(r, validateClient)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	for i := range clients {
		if clients[i].ID == "" {
			clients[i].ID = uuid.NewString()
		}
		if clients[i].CreatedAt.IsZero() {
			clients[i].CreatedAt = now
		}
	}

	if err := s.storage.SaveClients(ctx, clients); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(clients), nil
}

func (s *Service) ImportMotors(ctx context.Context, r io.Reader) (int, error) {
	const op = "service.transfer.ImportMotors"

	motors, err := DecodeJSON(r, validateMotor)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	for i := range motors {
		if motors[i].ID == "" {
			motors[i].ID = uuid.NewString()
		}
		if motors[i].CreatedAt.IsZero() {
			motors[i].CreatedAt = now
		}
	}

	if err := s.storage.SaveMotors(ctx, motors); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(motors), nil
}

var ClientHeader = []string{"id", "nome", "documento", "telefone", "email", "endereco", "criado_em"}

func ClientRows(clients []storage.Client) [][]string {
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			c.ID, c.Name, c.Document, c.Phone, c.Email, c.Address, formatDate(c.CreatedAt),
		})
	}
	return rows
}

var OrderHeader = []string{"id", "nome", "cliente_id", "motor_id", "prioridade", "status", "progresso", "servicos", "abertura", "prazo"}

func OrderRows(orders []storage.ServiceOrder) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		services := make([]string, 0, len(o.Services))
		for _, svc := range o.Services {
			services = append(services, string(svc.Type))
		}
		due := ""
		if o.DueAt != nil {
			due = formatDate(*o.DueAt)
		}
		rows = append(rows, []string{
			o.ID,
			o.Name,
			o.ClientID,
			o.MotorID,
			string(o.Priority),
			string(o.Status),
			strconv.Itoa(workflow.Progress(o)),
			strings.Join(services, ";"),
			formatDate(o.OpenedAt),
			due,
		})
	}
	return rows
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
