package validate

import "strings"

type BuzzPayload struct {
	Name string `json:"name" validate:"buzzname"`
}

// ParseBuzz 去掉首尾空白后校验名称长度（按字符计）
func ParseBuzz(p BuzzPayload) (string, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := Struct("invalid buzz name", p); err != nil {
		return "", err
	}
	return p.Name, nil
}

type SubscriptionPayload struct {
	BuzzID uint64 `json:"buzzId" validate:"required"`
}

func ParseSubscription(p SubscriptionPayload) (uint64, error) {
	if err := Struct("invalid subscription payload", p); err != nil {
		return 0, err
	}
	return p.BuzzID, nil
}
