package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"olilab/models"
)

var (
	// ErrNoState 存储里还没有聚合
	ErrNoState = errors.New("no stored state")
	// ErrCorruptState 存储里的聚合无法解码
	ErrCorruptState = errors.New("corrupt stored state")
)

// Store 持久化协作方：整存整取一个聚合快照
type Store interface {
	Load(ctx context.Context) (models.State, error)
	Save(ctx context.Context, s models.State) error
}

// EventSink 邮件协作方；投递结果不影响状态
type EventSink interface {
	Deliver(ctx context.Context, ev EmailEvent) error
}

// Reporter 报告协作方；只读，且不允许失败
type Reporter interface {
	GenerateReport(ctx context.Context, items []models.Item, logs []models.LogEntry, users []models.User) string
}

const deliveryTimeout = 30 * time.Second

// Engine 单写者：所有命令在互斥锁下串行执行，
// 读当前聚合 → Apply → 整体替换，然后保存并异步发邮件。
type Engine struct {
	mu    sync.Mutex
	state models.State

	store    Store
	sink     EventSink
	reporter Reporter
	env      Env
	log      zerolog.Logger
	audit    bool

	deliveries sync.WaitGroup
}

type Option func(*Engine)

func WithSink(sink EventSink) Option { return func(e *Engine) { e.sink = sink } }
func WithReporter(r Reporter) Option { return func(e *Engine) { e.reporter = r } }
func WithEnv(env Env) Option { return func(e *Engine) { e.env = env } }
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }
func WithInvariantChecks(on bool) Option { return func(e *Engine) { e.audit = on } }

// LoadOrSeed 读取聚合并做旧数据迁移；存储为空或损坏时写入种子数据
func LoadOrSeed(ctx context.Context, store Store, env Env, log zerolog.Logger) (models.State, error) {
	s, err := store.Load(ctx)
	version := s.Version
	switch {
	case err == nil:
		s.Normalize()
		return s, nil
	case errors.Is(err, ErrNoState), errors.Is(err, ErrCorruptState):
		log.Warn().Err(err).Msg("bootstrapping seed state")
	default:
		return models.State{}, fmt.Errorf("load state: %w", err)
	}
	seed, err := Seed(env)
	if err != nil {
		return models.State{}, err
	}
	seed.Version = version
	if err := store.Save(ctx, seed); err != nil {
		return models.State{}, fmt.Errorf("save seed state: %w", err)
	}
	return seed, nil
}

func NewEngine(ctx context.Context, store Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		env:   DefaultEnv(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	s, err := LoadOrSeed(ctx, store, e.env, e.log)
	if err != nil {
		return nil, err
	}
	e.state = s
	return e, nil
}

// Execute 执行一条命令，返回新聚合的副本和命令结果。
// 失败时当前聚合保持不变。
func (e *Engine) Execute(ctx context.Context, cmd Command) (models.State, Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, out, err := Apply(e.state, cmd, e.env)
	if err == nil && e.audit {
		if aerr := CheckInvariants(next); aerr != nil {
			err = fmt.Errorf("invariant violated after %s: %w", cmd.Name(), aerr)
		}
	}
	if err != nil {
		e.log.Warn().Str("cmd", cmd.Name()).Err(err).Msg("command rejected")
		return models.State{}, Outcome{}, err
	}

	next.Version = e.state.Version + 1
	e.state = next
	e.log.Info().Str("cmd", cmd.Name()).Int64("version", next.Version).Str("id", out.ID).Msg("command committed")

	if err := e.store.Save(ctx, next); err != nil {
		e.log.Error().Err(err).Int64("version", next.Version).Msg("persist state")
	}
	for _, ev := range out.Emails {
		e.deliver(ev)
	}
	return next.Clone(), out, nil
}

func (e *Engine) deliver(ev EmailEvent) {
	if e.sink == nil {
		return
	}
	e.deliveries.Add(1)
	go func() {
		defer e.deliveries.Done()
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := e.sink.Deliver(ctx, ev); err != nil {
			e.log.Error().Err(err).Str("event", string(ev.Type)).Str("user", ev.Subject.ID).Msg("email delivery failed")
		}
	}()
}

// Wait 等待已发出的邮件投递结束
func (e *Engine) Wait() { e.deliveries.Wait() }

// Snapshot 当前聚合的深拷贝
func (e *Engine) Snapshot() models.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// User 按 id 查用户（不拷贝整个聚合）
func (e *Engine) User(id string) (models.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.state.UserIndex(id)
	if i < 0 {
		return models.User{}, false
	}
	return e.state.Users[i].Clone(), true
}

// Report 把只读副本交给报告协作方；未配置时返回说明文字
func (e *Engine) Report(ctx context.Context) string {
	if e.reporter == nil {
		return "Reports are not available: no report service is configured."
	}
	s := e.Snapshot()
	users := make([]models.User, len(s.Users))
	for i, u := range s.Users {
		users[i] = u.Public()
	}
	return e.reporter.GenerateReport(ctx, s.Items, s.Logs, users)
}
