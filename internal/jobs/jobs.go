// Package jobs содержит периодические задачи CRM. Все они ходят в API по сети
// и пишут строку статуса в свой файл.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Deglobeal/alx-backend-graphql-crm/internal/dto"
	"github.com/Deglobeal/alx-backend-graphql-crm/internal/events"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	heartbeatLayout = "02/01/2006-15:04:05"
	logLayout       = "2006-01-02 15:04:05"

	ReminderTemplate = "order_reminder"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// HeartbeatStore — куда записать время последнего heartbeat (redis).
type HeartbeatStore interface {
	SetHeartbeat(ctx context.Context, at time.Time, ttl time.Duration) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, key string, msg events.EmailMessage) error
}

type clock func() time.Time

// Heartbeat пишет "DD/MM/YYYY-HH:MM:SS CRM is alive" и проверяет, что API отвечает.
// Недоступный API не считается ошибкой задачи: строка пишется всегда.
type Heartbeat struct {
	api   *APIClient
	sink  *Sink
	store HeartbeatStore
	ttl   time.Duration
	log   *zap.Logger
	now   clock
}

func NewHeartbeat(api *APIClient, sink *Sink, store HeartbeatStore, ttl time.Duration, log *zap.Logger) *Heartbeat {
	return &Heartbeat{api: api, sink: sink, store: store, ttl: ttl, log: log, now: time.Now}
}

func (j *Heartbeat) Name() string { return "heartbeat" }

func (j *Heartbeat) Run(ctx context.Context) error {
	now := j.now()
	if err := j.sink.Append(now.Format(heartbeatLayout) + " CRM is alive"); err != nil {
		return err
	}

	if err := j.api.Ping(ctx); err != nil {
		j.log.Warn("CRM API не отвечает", zap.Error(err))
	} else {
		j.log.Debug("CRM API responsive")
	}

	if j.store != nil {
		if err := j.store.SetHeartbeat(ctx, now, j.ttl); err != nil {
			j.log.Warn("не удалось сохранить heartbeat в redis", zap.Error(err))
		}
	}
	return nil
}

// Replenish вызывает пополнение остатков и пишет по строке на каждый обновлённый товар.
type Replenish struct {
	api    *APIClient
	sink   *Sink
	params dto.ReplenishRequest
	log    *zap.Logger
	now    clock
}

func NewReplenish(api *APIClient, sink *Sink, params dto.ReplenishRequest, log *zap.Logger) *Replenish {
	return &Replenish{api: api, sink: sink, params: params, log: log, now: time.Now}
}

func (j *Replenish) Name() string { return "replenish" }

func (j *Replenish) Run(ctx context.Context) error {
	res, err := j.api.ReplenishLowStock(ctx, j.params)
	ts := j.now().Format(logLayout)
	if err != nil {
		return writeFailure(j.sink, ts+" - ERROR: ", err)
	}

	if len(res.Products) == 0 {
		return j.sink.Append(ts + " - No low-stock products to update")
	}
	lines := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		lines = append(lines, fmt.Sprintf("%s - %s: stock %d", ts, p.Name, p.Stock))
	}
	j.log.Info("Low-stock products replenished", zap.Int64("updated", res.UpdatedCount))
	return j.sink.Append(lines...)
}

// WeeklyReport снимает три агрегата параллельно.
type WeeklyReport struct {
	api  *APIClient
	sink *Sink
	log  *zap.Logger
	now  clock
}

func NewWeeklyReport(api *APIClient, sink *Sink, log *zap.Logger) *WeeklyReport {
	return &WeeklyReport{api: api, sink: sink, log: log, now: time.Now}
}

func (j *WeeklyReport) Name() string { return "report" }

func (j *WeeklyReport) Run(ctx context.Context) error {
	var (
		customers, orders int64
		revenue           string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		customers, err = j.api.TotalCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = j.api.TotalOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		revenue, err = j.api.TotalRevenue(gctx)
		return err
	})
	err := g.Wait()

	ts := j.now().Format(logLayout)
	if err != nil {
		return writeFailure(j.sink, ts+" - ERROR: ", err)
	}

	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue", ts, customers, orders, revenue)
	j.log.Info("Weekly CRM report", zap.Int64("customers", customers), zap.Int64("orders", orders), zap.String("revenue", revenue))
	return j.sink.Append(line)
}

// CleanupCustomers удаляет клиентов без заказов за период inactiveFor.
type CleanupCustomers struct {
	api         *APIClient
	sink        *Sink
	inactiveFor time.Duration
	log         *zap.Logger
	now         clock
}

func NewCleanupCustomers(api *APIClient, sink *Sink, inactiveFor time.Duration, log *zap.Logger) *CleanupCustomers {
	return &CleanupCustomers{api: api, sink: sink, inactiveFor: inactiveFor, log: log, now: time.Now}
}

func (j *CleanupCustomers) Name() string { return "cleanup" }

func (j *CleanupCustomers) Run(ctx context.Context) error {
	var req dto.CleanupCustomersRequest
	if days := int(j.inactiveFor / (24 * time.Hour)); days > 0 {
		req.InactiveDays = &days
	}

	res, err := j.api.CleanupCustomers(ctx, req)
	ts := "[" + j.now().Format(logLayout) + "]"
	if err != nil {
		return writeFailure(j.sink, ts+" ERROR: ", err)
	}
	j.log.Info("Inactive customers deleted", zap.Int64("count", res.DeletedCount), zap.String("cutoff", res.Cutoff))
	return j.sink.Append(fmt.Sprintf("%s Deleted %d inactive customers", ts, res.DeletedCount))
}

// OrderReminders пишет напоминание по каждому заказу за последние window и,
// если настроен emails, ставит письмо в очередь.
type OrderReminders struct {
	api    *APIClient
	sink   *Sink
	window time.Duration
	emails EmailSender
	log    *zap.Logger
	now    clock
}

func NewOrderReminders(api *APIClient, sink *Sink, window time.Duration, emails EmailSender, log *zap.Logger) *OrderReminders {
	return &OrderReminders{api: api, sink: sink, window: window, emails: emails, log: log, now: time.Now}
}

func (j *OrderReminders) Name() string { return "reminders" }

func (j *OrderReminders) Run(ctx context.Context) error {
	now := j.now()
	orders, err := j.api.RecentOrders(ctx, now.Add(-j.window))
	ts := now.Format(logLayout)
	if err != nil {
		return writeFailure(j.sink, ts+" - ERROR: ", err)
	}
	if len(orders) == 0 {
		j.log.Info("No pending orders found", zap.Duration("window", j.window))
		return nil
	}

	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		email := "N/A"
		if o.Customer != nil && o.Customer.Email != "" {
			email = o.Customer.Email
		}
		lines = append(lines, fmt.Sprintf("%s - Order ID: %s, Customer Email: %s", ts, o.ID, email))

		if j.emails == nil || email == "N/A" {
			continue
		}
		msg := events.EmailMessage{
			To:       email,
			Subject:  "Напоминание о заказе",
			Template: ReminderTemplate,
			Data: map[string]any{
				"OrderID":     o.ID,
				"OrderDate":   o.OrderDate,
				"TotalAmount": o.TotalAmount,
				"Name":        o.Customer.Name,
			},
		}
		if err := j.emails.SendEmail(ctx, o.ID, msg); err != nil {
			j.log.Error("Ошибка отправки напоминания в Kafka", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	j.log.Info("Order reminders processed", zap.Int("count", len(orders)))
	return j.sink.Append(lines...)
}

// writeFailure пишет строку об ошибке и возвращает исходную ошибку.
func writeFailure(sink *Sink, prefix string, err error) error {
	if werr := sink.Append(prefix + err.Error()); werr != nil {
		return fmt.Errorf("%w (log write failed: %v)", err, werr)
	}
	return err
}
