package service

import (
	"fmt"
	"strings"
)

// MedicineAllowList son los medicamentos atendidos por orientación online.
var MedicineAllowList = []string{
	"ロキソニン",
	"カロナール",
	"ムコダイン",
	"アレグラ",
	"タミフル",
	"リレンザ",
	"ゾフルーザ",
	"アムロジピン",
	"ロスバスタチン",
	"メトホルミン",
}

// IsSupportedPrescription devuelve true si el texto contiene algún nombre de la lista.
// La comparación es por substring y distingue mayúsculas.
func IsSupportedPrescription(extracted string, allowList []string) bool {
	for _, item := range allowList {
		if item != "" && strings.Contains(extracted, item) {
			return true
		}
	}
	return false
}

const rateLimitedReply = "画像の送信回数が上限に達しました。しばらくしてから再度お試しください。"

func analysisReply(medicines string, supported bool) string {
	if supported {
		return fmt.Sprintf("%sを受け付けました。", medicines)
	}
	return fmt.Sprintf("%sはオンライン服薬指導対象外の可能性があります。詳細は薬剤師より連絡します。", medicines)
}

func guidanceSelectedReply(label string) string {
	return fmt.Sprintf("あなたが選択した時間は %s です。", label)
}

func finalReply(guidanceTime, deliveryTime string) string {
	return fmt.Sprintf("服薬指導時間：%s\n配送時間：%s\nで受け付けました。\n\n薬剤師からの連絡をお待ちください。", guidanceTime, deliveryTime)
}
