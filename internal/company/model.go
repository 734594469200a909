package company

import (
	"time"
)

var FinanceStages = []string{"未融资", "天使轮", "A轮", "B轮", "C轮", "D轮及以上", "上市公司", "不需要融资"}

var Fields = []string{"移动互联网", "电子商务", "金融", "企业服务", "教育", "文化娱乐", "游戏", "O2O", "硬件"}

type Company struct {
	ID           string
	Name         string
	Email        string
	Password     string
	Slug         string
	Address      string
	Logo         string
	FinanceStage string
	Field        string
	Website      string
	Description  string
	Details      string
	CreatedAt    time.Time
}
