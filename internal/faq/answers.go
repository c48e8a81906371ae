package faq

import "github.com/thaiturk/portal-go/internal/locale"

var answers = map[locale.Language]Table{
	locale.English: {
		TopicHair: "💆 **Hair Transplant** in Turkey:\n- FUE method: **$1,800–$3,500**\n- 2,000–5,000 grafts per session\n- 9–10 hour procedure\n- Results visible in 8–12 months\n\n" +
			"We partner with HairCure Istanbul & EsteNove Clinic (both JCI). Includes airport transfer + hotel. Shall I connect you with a coordinator?",
		TopicRhinoplasty: "👃 **Rhinoplasty (Nose Job)** in Turkey:\n- Cost: **$3,500–$6,000** (vs. $12,000+ in UK/USA)\n- General anesthesia, 2–3h procedure\n- 10–14 day recovery\n- Final result: 6–12 months\n\n" +
			"Partner hospitals: Memorial Şişli, Acıbadem Maslak (both JCI-accredited). Shall I book a free consultation?",
		TopicDental: "🦷 **Dental Veneers / Smile Design**:\n- E-max porcelain veneers: **$200–$400 per tooth**\n- Full smile (10 teeth): ~$2,000–$4,000\n- 2 sessions over 5–7 days\n- 15-year lifespan\n\n" +
			"Partner: DentGroup Istanbul. Package includes hotel + transfer. Want to see before/after examples?",
		TopicHospitals: "🏥 **Our Partner Hospitals:**\n\n**Turkey (Istanbul/Antalya):**\n- Memorial Şişli ⭐ 4.8 (JCI)\n- Acıbadem Maslak ⭐ 4.9 (JCI)\n- EsteNove Antalya ⭐ 4.7\n- DentGroup Istanbul ⭐ 4.5\n- HairCure Istanbul ⭐ 4.6\n\n" +
			"**Thailand (Phuket):**\n- Bangkok Hospital Phuket ⭐ 4.7 (JCI)\n- Siriroj International ⭐ 4.4\n\nAll packages include VIP transfer + personal coordinator.",
		TopicBooking: "📅 **How to Book:**\n1. Fill free consultation form on /medical\n2. Coordinator contacts you via WhatsApp in **5 minutes**\n3. We match you to the ideal clinic & create a care plan\n" +
			"4. Book flights — we arrange hotel + transfers\n5. Treatment in Turkey/Thailand 🏥\n6. Follow-up in Phuket 🌴\n\nFirst consultation is **100% free**. Ready to start?",
		TopicPrice: "💰 **Price Comparison (vs. Western clinics):**\n- Hair Transplant: $2,500 vs $15,000 → **Save 83%**\n- Rhinoplasty: $5,000 vs $14,000 → **Save 65%**\n" +
			"- Dental Veneers: $300/tooth vs $1,500 → **Save 80%**\n- Facelift: $8,000 vs $20,000 → **Save 60%**\n- IVF: $3,500 vs $12,000 → **Save 71%**\n\nAll-inclusive packages available. Which procedure interests you?",
	},
	locale.Russian: {
		TopicHair: "💆 **Трансплантация волос** в Турции:\n- Метод FUE: **$1,800–$3,500**\n- 2,000–5,000 графтов за сеанс\n- Процедура 9–10 часов\n- Результат через 8–12 месяцев\n\n" +
			"Партнёры: HairCure Istanbul & EsteNove. Включает трансфер + отель. Хотите записаться?",
		TopicPrice: "💰 **Сравнение цен (vs. Западные клиники):**\n- Трансплантация волос: $2,500 vs $15,000 → **экономия 83%**\n- Ринопластика: $5,000 vs $14,000 → **65%**\n" +
			"- Виниры: $300/зуб vs $1,500 → **80%**\n- Подтяжка лица: $8,000 vs $20,000 → **60%**\n\nВсе пакеты «всё включено». Какая процедура интересует?",
		TopicBooking: "📅 **Как записаться:**\n1. Заполните форму консультации\n2. Координатор пишет в WhatsApp за **5 минут**\n3. Подбираем клинику и план лечения\n" +
			"4. Организуем отель и трансфер\n5. Лечение в Турции/Таиланде 🏥\n\nКонсультация **бесплатная**.",
	},
	locale.Turkish: {
		TopicHair: "💆 **Saç Ekimi** Türkiye'de:\n- FUE yöntemi: **$1,800–$3,500**\n- Oturum başına 2.000–5.000 greft\n- 9–10 saatlik işlem\n- 8–12 ayda sonuç\n\n" +
			"Partner klinikler: HairCure Istanbul & EsteNove. Havalimanı transferi + otel dahil. Randevu alalım mı?",
		TopicPrice: "💰 **Fiyat Karşılaştırması:**\n- Saç Ekimi: $2.500 vs $15.000 → **%83 tasarruf**\n- Rinoplasti: $5.000 vs $14.000 → **%65**\n" +
			"- Veneer: $300/diş vs $1.500 → **%80**\n- Yüz Germe: $8.000 vs $20.000 → **%60**\n\nHangi prosedür ilginizi çekiyor?",
		TopicBooking: "📅 **Nasıl Rezervasyon Yapılır:**\n1. /medical formunu doldurun\n2. Koordinatör **5 dakikada** WhatsApp'tan yazar\n3. Ideal kliniği buluruz\n" +
			"4. Otel + transfer ayarlarız\n\nİlk konsültasyon **ücretsiz**.",
	},
}
