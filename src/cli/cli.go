package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// CLI 命令行入口
type CLI struct {
	opts    Options
	rootCmd *cobra.Command
}

// Options 输出目标，nil 时使用标准输出/标准错误
type Options struct {
	Output    io.Writer // 统计报告
	LogOutput io.Writer // 日志同步输出
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{opts: opts}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext 以指定参数和 ctx 执行，watch 在 ctx 结束时退出
func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flight-analyzer",
		Short:         "Flight delay statistics and charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.LogOutput)

	cmd.AddCommand(NewAnalyzeCmd(cli.opts))
	cmd.AddCommand(NewWatchCmd(cli.opts))

	return cmd
}
