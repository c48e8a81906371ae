package locale

import "fmt"

type table [keyCount]string

var catalog map[Language]*table

func init() {
	c, err := buildCatalog(map[Language]*table{
		English: &en,
		Russian: &ru,
		Turkish: &tr,
		Thai:    &th,
		Arabic:  &ar,
		Chinese: &zh,
	})
	if err != nil {
		panic(err)
	}
	catalog = c
}

// buildCatalog 校验每种语言都覆盖全部键
func buildCatalog(tables map[Language]*table) (map[Language]*table, error) {
	for _, lang := range Languages {
		tbl, ok := tables[lang]
		if !ok {
			return nil, fmt.Errorf("locale: missing table for %s", lang)
		}
		for k := Key(0); k < keyCount; k++ {
			if tbl[k] == "" {
				return nil, fmt.Errorf("locale: %s is missing key %s", lang, k)
			}
		}
	}
	return tables, nil
}

var en = table{
	KeyChatError:               "Sorry, something went wrong. Please try again.",
	KeyChatFallback:            "I'd be happy to help! For detailed answers, please use our consultation form or I can connect you with a coordinator. 😊",
	KeyChatGreeting:            "Hi! I'm MedBot 👋 Ask me about hair transplants, rhinoplasty, dental work, our partner hospitals, prices or booking.",
	KeyChatQuickPricing:        "💰 Prices",
	KeyChatQuickPricingValue:   "How much does a hair transplant cost?",
	KeyChatQuickHospitals:      "🏥 Hospitals",
	KeyChatQuickHospitalsValue: "Which partner hospitals do you work with?",
	KeyChatQuickBooking:        "📅 Booking",
	KeyChatQuickBookingValue:   "How do I book a consultation?",
	KeyChatEscalation:          "Talk to a human coordinator",
	KeyVizError:                "Visualization failed. Please try again.",
	KeyVizFileTooLarge:         "The file is too large. Maximum size is 10 MB.",
	KeyVizInvalidFormat:        "Please upload an image file (JPG, PNG, WEBP).",
	KeyVizDailyLimit:           "You have reached the daily visualization limit. Please try again tomorrow.",
	KeyVizTimeout:              "The visualization is taking too long. Please try again.",
	KeyVizUnknownProcedure:     "Unknown procedure. Please choose one from the list.",
	KeyIntakeError:             "We could not submit your request. Please try again or contact us on WhatsApp.",
	KeySomethingWentWrong:      "Something went wrong. Please try again or go back to the home page.",
}

var ru = table{
	KeyChatError:               "Извините, произошла ошибка. Попробуйте ещё раз.",
	KeyChatFallback:            "С радостью помогу! Для подробного ответа заполните форму консультации или я свяжу вас с координатором. 😊",
	KeyChatGreeting:            "Здравствуйте! Я MedBot 👋 Спросите меня о пересадке волос, ринопластике, стоматологии, клиниках-партнёрах, ценах или записи.",
	KeyChatQuickPricing:        "💰 Цены",
	KeyChatQuickPricingValue:   "Сколько стоит пересадка волос?",
	KeyChatQuickHospitals:      "🏥 Клиники",
	KeyChatQuickHospitalsValue: "С какими больницами вы работаете?",
	KeyChatQuickBooking:        "📅 Запись",
	KeyChatQuickBookingValue:   "Как записаться на консультацию?",
	KeyChatEscalation:          "Связаться с координатором",
	KeyVizError:                "Не удалось создать визуализацию. Попробуйте ещё раз.",
	KeyVizFileTooLarge:         "Файл слишком большой. Максимальный размер — 10 МБ.",
	KeyVizInvalidFormat:        "Загрузите изображение (JPG, PNG, WEBP).",
	KeyVizDailyLimit:           "Достигнут дневной лимит визуализаций. Попробуйте завтра.",
	KeyVizTimeout:              "Визуализация занимает слишком много времени. Попробуйте ещё раз.",
	KeyVizUnknownProcedure:     "Неизвестная процедура. Выберите процедуру из списка.",
	KeyIntakeError:             "Не удалось отправить заявку. Попробуйте ещё раз или напишите нам в WhatsApp.",
	KeySomethingWentWrong:      "Что-то пошло не так. Попробуйте ещё раз или вернитесь на главную.",
}

var tr = table{
	KeyChatError:               "Üzgünüz, bir hata oluştu. Lütfen tekrar deneyin.",
	KeyChatFallback:            "Yardımcı olmaktan memnuniyet duyarım! Detaylı bilgi için konsültasyon formunu doldurun veya sizi bir koordinatöre bağlayayım. 😊",
	KeyChatGreeting:            "Merhaba! Ben MedBot 👋 Saç ekimi, rinoplasti, diş tedavisi, partner hastaneler, fiyatlar veya randevu hakkında sorabilirsiniz.",
	KeyChatQuickPricing:        "💰 Fiyatlar",
	KeyChatQuickPricingValue:   "Saç ekimi fiyatı ne kadar?",
	KeyChatQuickHospitals:      "🏥 Hastaneler",
	KeyChatQuickHospitalsValue: "Hangi hastanelerle çalışıyorsunuz?",
	KeyChatQuickBooking:        "📅 Randevu",
	KeyChatQuickBookingValue:   "Nasıl randevu alabilirim?",
	KeyChatEscalation:          "Bir koordinatörle görüşün",
	KeyVizError:                "Görselleştirme başarısız oldu. Lütfen tekrar deneyin.",
	KeyVizFileTooLarge:         "Dosya çok büyük. Maksimum boyut 10 MB.",
	KeyVizInvalidFormat:        "Lütfen bir görsel dosyası yükleyin (JPG, PNG, WEBP).",
	KeyVizDailyLimit:           "Günlük görselleştirme sınırına ulaştınız. Lütfen yarın tekrar deneyin.",
	KeyVizTimeout:              "Görselleştirme çok uzun sürüyor. Lütfen tekrar deneyin.",
	KeyVizUnknownProcedure:     "Bilinmeyen prosedür. Lütfen listeden seçin.",
	KeyIntakeError:             "Talebiniz gönderilemedi. Lütfen tekrar deneyin veya WhatsApp'tan yazın.",
	KeySomethingWentWrong:      "Bir şeyler ters gitti. Lütfen tekrar deneyin veya ana sayfaya dönün.",
}

var th = table{
	KeyChatError:               "ขออภัย เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง",
	KeyChatFallback:            "ยินดีช่วยเหลือค่ะ! สำหรับข้อมูลโดยละเอียด กรุณากรอกแบบฟอร์มปรึกษา หรือให้เราติดต่อผู้ประสานงานให้ 😊",
	KeyChatGreeting:            "สวัสดีค่ะ! MedBot ยินดีต้อนรับ 👋 สอบถามเรื่องปลูกผม เสริมจมูก ทำฟัน โรงพยาบาลพันธมิตร ราคา หรือการนัดหมายได้เลย",
	KeyChatQuickPricing:        "💰 ราคา",
	KeyChatQuickPricingValue:   "ปลูกผมราคาเท่าไหร่?",
	KeyChatQuickHospitals:      "🏥 โรงพยาบาล",
	KeyChatQuickHospitalsValue: "มีโรงพยาบาลพันธมิตรที่ไหนบ้าง?",
	KeyChatQuickBooking:        "📅 นัดหมาย",
	KeyChatQuickBookingValue:   "จะนัดปรึกษาได้อย่างไร?",
	KeyChatEscalation:          "คุยกับผู้ประสานงาน",
	KeyVizError:                "การสร้างภาพล้มเหลว กรุณาลองใหม่อีกครั้ง",
	KeyVizFileTooLarge:         "ไฟล์มีขนาดใหญ่เกินไป ขนาดสูงสุด 10 MB",
	KeyVizInvalidFormat:        "กรุณาอัปโหลดไฟล์รูปภาพ (JPG, PNG, WEBP)",
	KeyVizDailyLimit:           "คุณใช้สิทธิ์สร้างภาพครบแล้วสำหรับวันนี้ กรุณาลองใหม่พรุ่งนี้",
	KeyVizTimeout:              "การสร้างภาพใช้เวลานานเกินไป กรุณาลองใหม่อีกครั้ง",
	KeyVizUnknownProcedure:     "ไม่รู้จักหัตถการนี้ กรุณาเลือกจากรายการ",
	KeyIntakeError:             "ไม่สามารถส่งคำขอได้ กรุณาลองใหม่หรือติดต่อเราทาง WhatsApp",
	KeySomethingWentWrong:      "เกิดข้อผิดพลาดบางอย่าง กรุณาลองใหม่หรือกลับไปหน้าแรก",
}

var ar = table{
	KeyChatError:               "عذرًا، حدث خطأ. يرجى المحاولة مرة أخرى.",
	KeyChatFallback:            "يسعدني مساعدتك! للحصول على إجابات مفصلة، يرجى استخدام نموذج الاستشارة أو يمكنني توصيلك بمنسق. 😊",
	KeyChatGreeting:            "مرحبًا! أنا MedBot 👋 اسألني عن زراعة الشعر وتجميل الأنف وطب الأسنان والمستشفيات الشريكة والأسعار والحجز.",
	KeyChatQuickPricing:        "💰 الأسعار",
	KeyChatQuickPricingValue:   "ما سعر زراعة الشعر؟",
	KeyChatQuickHospitals:      "🏥 المستشفيات",
	KeyChatQuickHospitalsValue: "ما هي المستشفيات الشريكة لديكم؟",
	KeyChatQuickBooking:        "📅 الحجز",
	KeyChatQuickBookingValue:   "كيف يمكنني حجز استشارة؟",
	KeyChatEscalation:          "تحدث مع منسق",
	KeyVizError:                "فشل إنشاء التصور. يرجى المحاولة مرة أخرى.",
	KeyVizFileTooLarge:         "الملف كبير جدًا. الحد الأقصى 10 ميغابايت.",
	KeyVizInvalidFormat:        "يرجى رفع ملف صورة (JPG، PNG، WEBP).",
	KeyVizDailyLimit:           "لقد وصلت إلى الحد اليومي للتصورات. يرجى المحاولة غدًا.",
	KeyVizTimeout:              "يستغرق التصور وقتًا طويلاً. يرجى المحاولة مرة أخرى.",
	KeyVizUnknownProcedure:     "إجراء غير معروف. يرجى الاختيار من القائمة.",
	KeyIntakeError:             "تعذر إرسال طلبك. يرجى المحاولة مرة أخرى أو التواصل معنا عبر واتساب.",
	KeySomethingWentWrong:      "حدث خطأ ما. يرجى المحاولة مرة أخرى أو العودة إلى الصفحة الرئيسية.",
}

var zh = table{
	KeyChatError:               "抱歉，出现了错误，请重试。",
	KeyChatFallback:            "很乐意为您服务！如需详细解答，请填写咨询表单，或由我为您联系协调员。😊",
	KeyChatGreeting:            "您好！我是 MedBot 👋 可以咨询植发、隆鼻、牙科、合作医院、价格或预约相关问题。",
	KeyChatQuickPricing:        "💰 价格",
	KeyChatQuickPricingValue:   "植发价格是多少？",
	KeyChatQuickHospitals:      "🏥 医院",
	KeyChatQuickHospitalsValue: "你们的合作医院有哪些？",
	KeyChatQuickBooking:        "📅 预约",
	KeyChatQuickBookingValue:   "如何预约咨询？",
	KeyChatEscalation:          "联系人工协调员",
	KeyVizError:                "效果图生成失败，请重试。",
	KeyVizFileTooLarge:         "文件过大，最大 10 MB。",
	KeyVizInvalidFormat:        "请上传图片文件（JPG、PNG、WEBP）。",
	KeyVizDailyLimit:           "您今日的效果图次数已用完，请明天再试。",
	KeyVizTimeout:              "效果图生成时间过长，请重试。",
	KeyVizUnknownProcedure:     "未知项目，请从列表中选择。",
	KeyIntakeError:             "提交失败，请重试或通过 WhatsApp 联系我们。",
	KeySomethingWentWrong:      "出了点问题，请重试或返回首页。",
}
