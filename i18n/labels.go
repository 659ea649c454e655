// ABOUTME: Arabic and English display strings for enum variants and UI text
// ABOUTME: Lookups fall back to English, then to the key itself
package i18n

import "github.com/harperreed/amil/models"

// Labeled is implemented by every enum variant in models.
type Labeled interface {
	LabelKey() string
}

var translations = map[string]map[string]string{
	models.LanguageArabic: {
		"customer.new":             "جديد",
		"customer.potential":       "محتمل",
		"customer.permanent":       "دائم",
		"interaction.call":         "مكالمة",
		"interaction.meeting":      "مقابلة",
		"interaction.email":        "إيميل",
		"interaction.message":      "رسالة",
		"outcome.positive":         "إيجابي",
		"outcome.negative":         "سلبي",
		"outcome.neutral":          "محايد",
		"deal.ongoing":             "جاري",
		"deal.closed":              "مغلق",
		"deal.rejected":            "مرفوض",
		"priority.high":            "عالي",
		"priority.medium":          "متوسط",
		"priority.low":             "منخفض",
		"task.pending":             "قيد الانتظار",
		"task.inProgress":          "جاري",
		"task.completed":           "مكتمل",
		"customers":                "العملاء",
		"interactions":             "التفاعلات",
		"deals":                    "الصفقات",
		"tasks":                    "المهام والتذكيرات",
		"reports":                  "التقارير",
		"settings":                 "الإعدادات",
		"name":                     "الاسم",
		"phone":                    "رقم الهاتف",
		"email":                    "البريد الإلكتروني",
		"customerType":             "نوع العميل",
		"tags":                     "التصنيفات",
		"notes":                    "ملاحظات",
		"customer":                 "العميل",
		"lastContact":              "آخر تواصل",
		"createdAt":                "تاريخ الإنشاء",
		"interactionType":          "نوع التفاعل",
		"dateTime":                 "التاريخ والوقت",
		"duration":                 "المدة",
		"minutes":                  "دقيقة",
		"outcome":                  "النتيجة",
		"nextAction":               "الإجراء التالي",
		"dealName":                 "اسم الصفقة",
		"dealValue":                "قيمة الصفقة",
		"dealStatus":               "حالة الصفقة",
		"successProbability":       "احتمالية النجاح",
		"expectedCloseDate":        "تاريخ الإغلاق المتوقع",
		"rejectionReason":          "سبب الرفض",
		"rejectionReasons":         "أسباب الرفض",
		"totalOngoingDeals":        "إجمالي الصفقات الجارية",
		"expectedValue":            "القيمة المتوقعة",
		"closedDeals":              "الصفقات المغلقة",
		"rejectedDeals":            "الصفقات المرفوضة",
		"taskTitle":                "عنوان المهمة",
		"taskDescription":          "وصف المهمة",
		"dueDate":                  "تاريخ ووقت الاستحقاق",
		"priority":                 "الأولوية",
		"status":                   "الحالة",
		"overdueTasks":             "المهام المتأخرة",
		"todayTasks":               "مهام اليوم",
		"completedTasks":           "المهام المكتملة",
		"generalTask":              "مهمة عامة",
		"unknownCustomer":          "عميل غير معروف",
		"overdue":                  "متأخرة",
		"taskNotifications":        "تنبيهات المهام",
		"noCustomers":              "لا يوجد عملاء",
		"noInteractionsRecorded":   "لا توجد تفاعلات مسجلة",
		"noDealsRecorded":          "لا توجد صفقات مسجلة",
		"noTasksRecorded":          "لا توجد مهام مسجلة",
		"confirmDeleteCustomer":    "هل أنت متأكد من حذف هذا العميل؟",
		"confirmDeleteInteraction": "هل أنت متأكد من حذف هذا التفاعل؟",
		"confirmDeleteDeal":        "هل أنت متأكد من حذف هذه الصفقة؟",
		"confirmDeleteTask":        "هل أنت متأكد من حذف هذه المهمة؟",
		"reportsAndStats":          "التقارير والإحصائيات",
		"period":                   "الفترة",
		"to":                       "إلى",
		"newCustomers":             "العملاء الجدد",
		"totalInteractions":        "إجمالي التفاعلات",
		"interactionsByType":       "التفاعلات حسب النوع",
		"customersByType":          "العملاء حسب النوع",
		"successRate":              "معدل النجاح",
		"performanceSummary":       "ملخص الأداء",
		"taskStatus":               "حالة المهام",
		"dealCloseRate":            "معدل إغلاق الصفقات",
		"averageDealValue":         "متوسط قيمة الصفقة",
		"language":                 "اللغة",
		"currency":                 "العملة",
		"theme":                    "المظهر",
		"darkMode":                 "الوضع الليلي",
		"backup":                   "النسخ الاحتياطية",
		"yes":                      "نعم",
		"no":                       "لا",
	},
	models.LanguageEnglish: {
		"customer.new":             "New",
		"customer.potential":       "Potential",
		"customer.permanent":       "Permanent",
		"interaction.call":         "Call",
		"interaction.meeting":      "Meeting",
		"interaction.email":        "Email",
		"interaction.message":      "Message",
		"outcome.positive":         "Positive",
		"outcome.negative":         "Negative",
		"outcome.neutral":          "Neutral",
		"deal.ongoing":             "Ongoing",
		"deal.closed":              "Closed",
		"deal.rejected":            "Rejected",
		"priority.high":            "High",
		"priority.medium":          "Medium",
		"priority.low":             "Low",
		"task.pending":             "Pending",
		"task.inProgress":          "In Progress",
		"task.completed":           "Completed",
		"customers":                "Customers",
		"interactions":             "Interactions",
		"deals":                    "Deals",
		"tasks":                    "Tasks & Reminders",
		"reports":                  "Reports",
		"settings":                 "Settings",
		"name":                     "Name",
		"phone":                    "Phone Number",
		"email":                    "Email",
		"customerType":             "Customer Type",
		"tags":                     "Tags",
		"notes":                    "Notes",
		"customer":                 "Customer",
		"lastContact":              "Last Contact",
		"createdAt":                "Created",
		"interactionType":          "Interaction Type",
		"dateTime":                 "Date & Time",
		"duration":                 "Duration",
		"minutes":                  "minutes",
		"outcome":                  "Outcome",
		"nextAction":               "Next Action",
		"dealName":                 "Deal Name",
		"dealValue":                "Deal Value",
		"dealStatus":               "Deal Status",
		"successProbability":       "Success Probability",
		"expectedCloseDate":        "Expected Close Date",
		"rejectionReason":          "Rejection Reason",
		"rejectionReasons":         "Rejection Reasons",
		"totalOngoingDeals":        "Total Ongoing Deals",
		"expectedValue":            "Expected Value",
		"closedDeals":              "Closed Deals",
		"rejectedDeals":            "Rejected Deals",
		"taskTitle":                "Task Title",
		"taskDescription":          "Task Description",
		"dueDate":                  "Due Date & Time",
		"priority":                 "Priority",
		"status":                   "Status",
		"overdueTasks":             "Overdue Tasks",
		"todayTasks":               "Today's Tasks",
		"completedTasks":           "Completed Tasks",
		"generalTask":              "General Task",
		"unknownCustomer":          "Unknown Customer",
		"overdue":                  "Overdue",
		"taskNotifications":        "Task Notifications",
		"noCustomers":              "No customers",
		"noInteractionsRecorded":   "No interactions recorded",
		"noDealsRecorded":          "No deals recorded",
		"noTasksRecorded":          "No tasks recorded",
		"confirmDeleteCustomer":    "Are you sure you want to delete this customer?",
		"confirmDeleteInteraction": "Are you sure you want to delete this interaction?",
		"confirmDeleteDeal":        "Are you sure you want to delete this deal?",
		"confirmDeleteTask":        "Are you sure you want to delete this task?",
		"reportsAndStats":          "Reports & Statistics",
		"period":                   "Period",
		"to":                       "to",
		"newCustomers":             "New Customers",
		"totalInteractions":        "Total Interactions",
		"interactionsByType":       "Interactions by Type",
		"customersByType":          "Customers by Type",
		"successRate":              "Success Rate",
		"performanceSummary":       "Performance Summary",
		"taskStatus":               "Task Status",
		"dealCloseRate":            "Deal Close Rate",
		"averageDealValue":         "Average Deal Value",
		"language":                 "Language",
		"currency":                 "Currency",
		"theme":                    "Theme",
		"darkMode":                 "Dark Mode",
		"backup":                   "Backup",
		"yes":                      "Yes",
		"no":                       "No",
	},
}

var currencyNames = map[string]map[string]string{
	models.LanguageArabic: {
		"EGP": "جنيه مصري",
		"USD": "دولار أمريكي",
		"EUR": "يورو",
		"SAR": "ريال سعودي",
		"AED": "درهم إماراتي",
	},
	models.LanguageEnglish: {
		"EGP": "Egyptian Pound",
		"USD": "US Dollar",
		"EUR": "Euro",
		"SAR": "Saudi Riyal",
		"AED": "UAE Dirham",
	},
}

var themeNames = map[string]map[string]string{
	models.LanguageArabic: {
		"default":      "الأزرق الافتراضي",
		"green":        "الأخضر الطبيعي",
		"purple":       "البنفسجي الملكي",
		"orange":       "البرتقالي الدافئ",
		"default.dark": "الأزرق الليلي",
		"green.dark":   "الأخضر الليلي",
		"purple.dark":  "البنفسجي الليلي",
		"orange.dark":  "البرتقالي الليلي",
	},
	models.LanguageEnglish: {
		"default":      "Default Blue",
		"green":        "Natural Green",
		"purple":       "Royal Purple",
		"orange":       "Warm Orange",
		"default.dark": "Night Blue",
		"green.dark":   "Night Green",
		"purple.dark":  "Night Purple",
		"orange.dark":  "Night Orange",
	},
}

func lookup(table map[string]map[string]string, key, lang string) string {
	if v, ok := table[lang][key]; ok {
		return v
	}
	if v, ok := table[models.LanguageEnglish][key]; ok {
		return v
	}
	return key
}

// T translates a UI key; unknown keys come back unchanged.
func T(key, lang string) string {
	return lookup(translations, key, lang)
}

// Label is the display string of an enum variant.
func Label(v Labeled, lang string) string {
	return T(v.LabelKey(), lang)
}

func CurrencyName(code, lang string) string {
	return lookup(currencyNames, code, lang)
}

func ThemeName(theme, lang string, dark bool) string {
	if dark {
		theme += ".dark"
	}
	return lookup(themeNames, theme, lang)
}
