package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Input struct {
		File      string `json:"file"`       // 航班数据文件(.csv/.xlsx)
		SheetName string `json:"sheet_name"` // xlsx 工作表名
		HeaderRow int    `json:"header_row"` // xlsx 标题行(从0开始)
		Encoding  string `json:"encoding"`   // csv 编码: utf-8 / gbk
	} `json:"input"`

	Analysis struct {
		DelayThreshold float64 `json:"delay_threshold"` // 延误判定阈值(分钟)
		TopN           int     `json:"top_n"`           // 航线排名数量
		Carrier        string  `json:"carrier"`         // 航司筛选，空为全部
		HistogramBins  int     `json:"histogram_bins"`  // 延误分布分箱数
	} `json:"analysis"`

	Output struct {
		Dir      string `json:"dir"`      // 输出目录
		Workbook string `json:"workbook"` // 统计结果工作簿文件名，空则不导出
		Charts   bool   `json:"charts"`   // 是否生成图表
	} `json:"output"`

	Watch struct {
		CheckInterval Duration `json:"check_interval"` // 定时重算间隔
	} `json:"watch"`

	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"` // 形如 "10 * 1024 * 1024"
}

// DataConfig 数据列配置
// FlightData 为字段名到文件列名的映射，未配置的字段使用字段名本身
type DataConfig struct {
	FlightData map[string]string `json:"flightData"`
}

var mu sync.RWMutex

// Default 默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.Input.SheetName = "flights"
	cfg.Input.Encoding = "utf-8"
	cfg.Analysis.DelayThreshold = 15
	cfg.Analysis.TopN = 15
	cfg.Analysis.HistogramBins = 50
	cfg.Output.Dir = "output"
	cfg.Output.Workbook = "flight_analysis.xlsx"
	cfg.Output.Charts = true
	cfg.Watch.CheckInterval = Duration(5 * time.Minute)
	cfg.LogName = "app.log"
	cfg.LogMaxSize = "10 * 1024 * 1024"
	return cfg
}

// DefaultDataConfig 默认列映射为空，即列名与字段名一致
func DefaultDataConfig() *DataConfig {
	return &DataConfig{FlightData: map[string]string{}}
}

// LoadConfig 从目录加载 Config 与 DataConfig
// 文件不存在时使用默认值，文件存在但解析失败时返回错误
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, dcfg, nil
}

// readFile 读取文件，不存在时返回 nil
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := Default()
	if len(data) > 0 {
		if err := json.Unmarshal(data, cfg); err != nil {
			errChan <- fmt.Errorf("解析Config失败: %w", err)
			return
		}
	}
	resultChan <- cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	dcfg := DefaultDataConfig()
	if len(data) > 0 {
		if err := json.Unmarshal(data, dcfg); err != nil {
			errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
			return
		}
	}
	if dcfg.FlightData == nil {
		dcfg.FlightData = map[string]string{}
	}
	resultChan <- dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Validate 校验分析参数
func (c *Config) Validate() error {
	if c.Analysis.DelayThreshold < 0 {
		return fmt.Errorf("delay_threshold 不能为负数: %v", c.Analysis.DelayThreshold)
	}
	if c.Analysis.TopN <= 0 {
		return fmt.Errorf("top_n 必须为正整数: %d", c.Analysis.TopN)
	}
	if c.Analysis.HistogramBins <= 0 {
		return fmt.Errorf("histogram_bins 必须为正整数: %d", c.Analysis.HistogramBins)
	}
	if c.Input.HeaderRow < 0 {
		return fmt.Errorf("header_row 不能为负数: %d", c.Input.HeaderRow)
	}
	return nil
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Column 返回字段对应的文件列名
func (dc *DataConfig) Column(field string) string {
	mu.RLock()
	defer mu.RUnlock()
	if col, ok := dc.FlightData[field]; ok && col != "" {
		return col
	}
	return field
}

// SetColumn 设置字段对应的文件列名
func (dc *DataConfig) SetColumn(field, column string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.FlightData == nil {
		dc.FlightData = map[string]string{}
	}
	dc.FlightData[field] = column
}
