package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// Sheet 待写入工作簿的一个工作表
type Sheet struct {
	Name  string
	Frame dataframe.DataFrame
}

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// MissingColumns 返回 df 中不存在的列，保持 cols 的顺序
func MissingColumns(df dataframe.DataFrame, cols []string) []string {
	var missing []string
	for _, c := range cols {
		if !HasColumn(df, c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// EnsureDir 确保目录存在
func EnsureDir(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}

// SaveSheets 将多个DataFrame写入同一个xlsx文件，每个DataFrame一个工作表
// 缺失值写为空单元格
func SaveSheets(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("没有需要保存的工作表")
	}
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("重命名工作表失败: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("创建工作表 %s 失败: %w", sh.Name, err)
		}
		if err := writeFrame(f, sh.Name, sh.Frame); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func writeFrame(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := df.Col(colName)
		for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
			elem := col.Elem(rowIdx)
			if elem.IsNA() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, elem.Val()); err != nil {
				return err
			}
		}
	}
	return nil
}
