// reader.go
package file

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"FlightAnalyzer/src/config"
	"FlightAnalyzer/src/processor"
	"FlightAnalyzer/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// 航班数据字段名
const (
	ColYear         = "year"
	ColMonth        = "month"
	ColDay          = "day"
	ColDepTime      = "dep_time"
	ColSchedDepTime = "sched_dep_time"
	ColDepDelay     = "dep_delay"
	ColArrTime      = "arr_time"
	ColSchedArrTime = "sched_arr_time"
	ColArrDelay     = "arr_delay"
	ColCarrier      = "carrier"
	ColFlight       = "flight"
	ColTailNum      = "tailnum"
	ColOrigin       = "origin"
	ColDest         = "dest"
	ColAirTime      = "air_time"
	ColDistance     = "distance"
	ColHour         = "hour"
	ColMinute       = "minute"
	ColName         = "name"
)

// RequiredColumns 缺少任意一列都无法统计
var RequiredColumns = []string{
	ColYear, ColMonth, ColDay, ColDepDelay, ColArrDelay,
	ColCarrier, ColOrigin, ColDest, ColHour,
}

// OptionalColumns 缺少时记录对应字段为空
var OptionalColumns = []string{
	ColDepTime, ColSchedDepTime, ColArrTime, ColSchedArrTime,
	ColFlight, ColTailNum, ColAirTime, ColDistance, ColMinute, ColName,
}

// 视为缺失的单元格内容
var naValues = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// Options 读取选项
type Options struct {
	SheetName string             // xlsx 工作表名，空则取第一个
	HeaderRow int                // xlsx 标题行
	Encoding  string             // csv 编码
	Columns   *config.DataConfig // 字段到列名的映射
}

// OptionsFromConfig 由配置生成读取选项
func OptionsFromConfig(cfg *config.Config, dcfg *config.DataConfig) Options {
	return Options{
		SheetName: cfg.Input.SheetName,
		HeaderRow: cfg.Input.HeaderRow,
		Encoding:  cfg.Input.Encoding,
		Columns:   dcfg,
	}
}

// LoadFlightTable 按扩展名读取航班文件并转换为航班表
func LoadFlightTable(filePath string, opts Options) (*processor.FlightTable, error) {
	var (
		df  dataframe.DataFrame
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".csv", ".txt":
		df, err = ReadCSVToDataFrame(filePath, opts.Encoding)
	case ".xlsx":
		df, err = ReadXLSXToDataFrame(filePath, opts.SheetName, opts.HeaderRow)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return ToFlightTable(df, opts.Columns)
}

// ReadCSVToDataFrame 读取分隔文本文件，所有列按字符串读取
func ReadCSVToDataFrame(filePath, encoding string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r, err := decodeReader(f, encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read csv file %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("csv file %s has no header", filePath)
	}
	for i, name := range records[0] {
		records[0][i] = strings.TrimSpace(name)
	}
	// 只有标题行时返回空表，由统计得到0计数结果
	if len(records) == 1 {
		return emptyFrame(records[0]), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse csv file %s: %w", filePath, df.Err)
	}
	return df, nil
}

// emptyFrame 只有列名的字符串表
func emptyFrame(headers []string) dataframe.DataFrame {
	seriesList := make([]series.Series, len(headers))
	for i, name := range headers {
		seriesList[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(seriesList...)
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "gbk":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	case "gb18030":
		return transform.NewReader(r, simplifiedchinese.GB18030.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// ReadXLSXToDataFrame 读取xlsx工作表，headerRow 为标题行下标
func ReadXLSXToDataFrame(filePath, sheetName string, headerRow int) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open xlsx file: %w", err)
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no sheet in %s", filePath)
	}
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("sheet %q not found in %s", sheetName, filePath)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	return convertSheetToDataFrame(sheet, headerRow)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet, headerRow int) (dataframe.DataFrame, error) {
	if len(sheet.Rows) <= headerRow {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %s has no header row %d", sheet.Name, headerRow)
	}

	var headers []string
	for _, cell := range sheet.Rows[headerRow].Cells {
		headers = append(headers, strings.TrimSpace(cell.String()))
	}

	// 准备数据列
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-headerRow-1)
	}

	// 填充数据，短行补空
	for _, row := range sheet.Rows[headerRow+1:] {
		for i := range headers {
			v := ""
			if i < len(row.Cells) {
				v = row.Cells[i].String()
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build dataframe from sheet %s: %w", sheet.Name, df.Err)
	}
	return df, nil
}

// ToFlightTable 校验列并将DataFrame逐行转换为航班记录
func ToFlightTable(df dataframe.DataFrame, columns *config.DataConfig) (*processor.FlightTable, error) {
	if columns == nil {
		columns = config.DefaultDataConfig()
	}

	required := make([]string, len(RequiredColumns))
	for i, field := range RequiredColumns {
		required[i] = columns.Column(field)
	}
	if missing := utils.MissingColumns(df, required); len(missing) > 0 {
		return nil, &processor.SchemaError{Missing: missing}
	}

	// 各字段的列数据，可选列不存在时为 nil
	cols := make(map[string][]string)
	for _, field := range append(append([]string{}, RequiredColumns...), OptionalColumns...) {
		name := columns.Column(field)
		if utils.HasColumn(df, name) {
			cols[field] = df.Col(name).Records()
		}
	}

	records := make([]processor.FlightRecord, df.Nrow())
	for i := range records {
		p := rowParser{cols: cols, row: i}
		records[i] = processor.FlightRecord{
			Year:         p.intVal(ColYear, 0),
			Month:        p.intVal(ColMonth, 0),
			Day:          p.intVal(ColDay, 0),
			DepTime:      p.floatVal(ColDepTime),
			SchedDepTime: p.intVal(ColSchedDepTime, 0),
			DepDelay:     p.floatVal(ColDepDelay),
			ArrTime:      p.floatVal(ColArrTime),
			SchedArrTime: p.intVal(ColSchedArrTime, 0),
			ArrDelay:     p.floatVal(ColArrDelay),
			Carrier:      p.strVal(ColCarrier),
			Flight:       p.strVal(ColFlight),
			TailNum:      p.strVal(ColTailNum),
			Origin:       p.strVal(ColOrigin),
			Dest:         p.strVal(ColDest),
			AirTime:      p.floatVal(ColAirTime),
			Distance:     p.floatVal(ColDistance),
			Hour:         p.intVal(ColHour, -1),
			Minute:       p.intVal(ColMinute, -1),
			Name:         p.strVal(ColName),
		}
		if p.err != nil {
			return nil, p.err
		}
	}
	return processor.NewFlightTable(records), nil
}

// rowParser 解析一行，记录遇到的第一个错误
type rowParser struct {
	cols map[string][]string
	row  int
	err  error
}

func (p *rowParser) raw(field string) (string, bool) {
	col, ok := p.cols[field]
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(col[p.row])
	if utils.Contains(naValues, v) {
		return "", false
	}
	return v, true
}

func (p *rowParser) strVal(field string) string {
	v, _ := p.raw(field)
	return v
}

func (p *rowParser) floatVal(field string) processor.NullFloat {
	v, ok := p.raw(field)
	if !ok {
		return processor.Missing()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(field, v)
		return processor.Missing()
	}
	return processor.Float(f)
}

// intVal 缺失时返回 missing，允许 "5.0" 这样的整数值
func (p *rowParser) intVal(field string, missing int) int {
	v, ok := p.raw(field)
	if !ok {
		return missing
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		p.fail(field, v)
		return missing
	}
	return int(f)
}

func (p *rowParser) fail(field, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("row %d: invalid %s value %q", p.row+1, field, value)
	}
}
