package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"FlightAnalyzer/src/config"
	"FlightAnalyzer/src/datasource/file"
	"FlightAnalyzer/src/storage"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var errWatchClosed = errors.New("watch stopped")

type WatchCmd struct {
	flags    analysisFlags
	interval time.Duration
	opts     Options
}

// NewWatchCmd 文件变更时和定时重新分析
func NewWatchCmd(opts Options) *cobra.Command {
	wc := &WatchCmd{opts: opts}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis when the data file changes and on a schedule",
		Args:  cobra.NoArgs,
		RunE:  wc.run,
	}
	wc.flags.bind(cmd)
	cmd.Flags().DurationVar(&wc.interval, "interval", 5*time.Minute, "Interval between scheduled runs")
	return cmd
}

func (wc *WatchCmd) run(cmd *cobra.Command, args []string) error {
	cfg, dcfg, err := wc.flags.load(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("interval") {
		cfg.Watch.CheckInterval = config.Duration(wc.interval)
	}
	interval := time.Duration(cfg.Watch.CheckInterval)
	if interval <= 0 {
		return fmt.Errorf("check_interval 必须为正数: %v", interval)
	}

	r, err := newRunner(cfg, dcfg, wc.opts)
	if err != nil {
		return err
	}
	loop := &watchLoop{run: r.run, logger: r.logger, closer: r.close}
	// 最后执行：等待进行中的分析结束后再关闭日志
	defer loop.close()

	// 先开始监听，首次分析期间的变更也能收到
	monitor, err := file.NewFileMonitor(cfg.Input.File)
	if err != nil {
		return fmt.Errorf("监控文件 %s 失败: %w", cfg.Input.File, err)
	}
	defer monitor.Close()

	// 首次分析失败说明配置或数据有问题，直接退出
	if err := loop.analyze("启动"); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	cronSpec := fmt.Sprintf("@every %s", interval)
	if err := c.AddFunc(cronSpec, func() { loop.analyze("定时") }); err != nil {
		return fmt.Errorf("创建定时任务失败: %w", err)
	}
	c.Start()
	defer c.Stop()

	r.logger.Infof("监控服务已启动(检查间隔: %v)，按Ctrl+C退出", interval)
	err = monitor.Watch(ctx, func(path string) { loop.analyze("文件更新") })
	r.logger.Info("监控服务已停止")
	return err
}

// watchLoop 串行执行分析，定时任务与文件事件可能同时触发
// cron 的 Stop 不等待运行中的任务，close 需等当前分析结束
type watchLoop struct {
	mu     sync.Mutex
	closed bool
	run    func() error
	logger *storage.Logger
	closer func()
}

func (l *watchLoop) analyze(reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errWatchClosed
	}
	l.logger.Infof("开始分析(%s)...", reason)
	err := l.run()
	if err != nil {
		l.logger.Error(err.Error())
	}
	return err
}

func (l *watchLoop) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.closer()
}
