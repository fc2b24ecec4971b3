package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingAddress 收货地址，两行地址独立存储
type ShippingAddress struct {
	Line1      string `json:"line1"`       // 地址第一行
	Line2      string `json:"line2"`       // 地址第二行（可选）
	City       string `json:"city"`        // 城市
	State      string `json:"state"`       // 省/州
	PostalCode string `json:"postal_code"` // 邮编
	Country    string `json:"country"`     // 国家
}

// legacyShippingAddress 旧格式：street 为两行地址逗号拼接
type legacyShippingAddress struct {
	Street     *string `json:"street"`
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

// JoinStreet 旧格式编码：line1 与 line2 以 ", " 拼接
func JoinStreet(line1, line2 string) string {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	if line2 == "" {
		return line1
	}
	return line1 + ", " + line2
}

// SplitStreet 旧格式解码：按第一个逗号拆分
func SplitStreet(street string) (string, string) {
	idx := strings.Index(street, ",")
	if idx < 0 {
		return strings.TrimSpace(street), ""
	}
	return strings.TrimSpace(street[:idx]), strings.TrimSpace(street[idx+1:])
}

// Street 单行地址，用于邮件与展示
func (a ShippingAddress) Street() string {
	return JoinStreet(a.Line1, a.Line2)
}

// Normalize 去除首尾空白
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

// MissingField 返回第一个缺失的必填字段名，全部填写时返回空串
func (a ShippingAddress) MissingField() string {
	n := a.Normalize()
	switch {
	case n.Line1 == "":
		return "line1"
	case n.City == "":
		return "city"
	case n.State == "":
		return "state"
	case n.PostalCode == "":
		return "postal_code"
	case n.Country == "":
		return "country"
	}
	return ""
}

// IsEmpty 判断地址是否未填写
func (a ShippingAddress) IsEmpty() bool {
	return a.Normalize() == ShippingAddress{}
}

// UnmarshalJSON 同时兼容 line1/line2 与旧的 street 字段
func (a *ShippingAddress) UnmarshalJSON(b []byte) error {
	var raw legacyShippingAddress
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := ShippingAddress{
		City:       raw.City,
		State:      raw.State,
		PostalCode: raw.PostalCode,
		Country:    raw.Country,
	}
	if raw.Line1 != nil || raw.Line2 != nil {
		if raw.Line1 != nil {
			out.Line1 = *raw.Line1
		}
		if raw.Line2 != nil {
			out.Line2 = *raw.Line2
		}
	} else if raw.Street != nil {
		out.Line1, out.Line2 = SplitStreet(*raw.Street)
	}
	*a = out
	return nil
}

// Value 实现 driver.Valuer 接口
func (a ShippingAddress) Value() (driver.Value, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (a *ShippingAddress) Scan(value interface{}) error {
	raw, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*a = ShippingAddress{}
		return nil
	}
	return json.Unmarshal(raw, a)
}

// Validate 校验必填字段
func (a ShippingAddress) Validate() error {
	if field := a.MissingField(); field != "" {
		return fmt.Errorf("shipping address %s is required", field)
	}
	return nil
}
