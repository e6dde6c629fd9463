package bot

// User-facing copy. The audience is Arabic-speaking students; keep the
// wording consistent with the notification texts the engine sends.
const (
	msgWelcomeBack = "أهلاً بعودتك %s! 👋\n\nاختر من القائمة:"

	msgAskFullName = "مرحباً بك في المنصة التعليمية! 🎓\n\nللتسجيل، أرسل اسمك الثلاثي الكامل:"
	msgBadFullName = "⚠️ يرجى إرسال الاسم الثلاثي الكامل (ثلاث كلمات على الأقل)."
	msgAskPhone    = "ممتاز! الآن أرسل رقم هاتفك بالصيغة الدولية (مثال: +963999999999):"
	msgBadPhone    = "⚠️ رقم الهاتف غير صالح. يجب أن يبدأ بـ + ولا يقل عن 10 خانات."
	msgAskEmail    = "رائع! أخيراً، أرسل بريدك الإلكتروني:"
	msgBadEmail    = "⚠️ البريد الإلكتروني غير صالح. حاول مرة أخرى."
	msgEmailTaken  = "⚠️ هذا البريد الإلكتروني مسجل مسبقاً. أرسل بريداً آخر:"
	msgRegistered  = "✅ تم تسجيلك بنجاح %s!\n\nاختر من القائمة:"

	msgNoCourses       = "لا توجد دورات متاحة حالياً."
	msgNoMaterials     = "لا توجد مواد لهذا الفصل."
	msgChooseCourse    = "📚 الدورات المتاحة:"
	msgChooseYear      = "📖 اختر السنة الدراسية:"
	msgChooseSemester  = "اختر الفصل:"
	msgChooseMaterial  = "📖 مواد السنة %d - الفصل %d:"
	msgEnrollPending   = "⏳ طلبك قيد المراجعة. سيتم إعلامك فور الموافقة."
	msgEnrollApproved  = "✅ أنت مسجل في هذا العنصر.\n\n🔗 رابط المجموعة:\n%s"
	msgNoGroupLink     = "سيتم إرسال رابط المجموعة قريباً"
	msgChoosePayment   = "💳 اختر وسيلة الدفع:"
	msgPaymentSham     = "💰 ادفع %d ل.س عبر شام كاش على الرقم:\n`%s`\n\nثم أرسل صورة إشعار الدفع هنا. 📸"
	msgPaymentHaram    = "💰 ادفع %d ل.س عبر الهرم على الرقم:\n`%s`\n\nثم أرسل صورة إشعار الدفع هنا. 📸"
	msgNeedProofPhoto  = "⚠️ يرجى إرسال صورة إشعار الدفع."
	msgProofReceived   = "✅ تم استلام إشعار الدفع!\n\n⏳ سيتم مراجعة طلبك والرد عليك قريباً."
	msgAlreadyPending  = "⏳ لديك طلب قيد المراجعة لهذا العنصر بالفعل."
	msgAlreadyApproved = "✅ أنت مسجل في هذا العنصر بالفعل."

	msgNoAssignments    = "لا توجد واجبات متاحة حالياً."
	msgChooseAssignment = "📝 الواجبات المتاحة:"
	msgAssignmentInfo   = "📝 %s\n\n%s\n\n⏰ الموعد النهائي: %s\n⏳ المتبقي: %s\n📊 الدرجة العظمى: %d"
	msgDeadlinePassed   = "⌛ انتهى الموعد النهائي"
	msgSendSubmission   = "📤 أرسل ملف إجابتك (صورة أو مستند):"
	msgNeedSubmission   = "⚠️ يرجى إرسال الإجابة كصورة أو مستند."
	msgSubmitted        = "✅ تم استلام إجابتك!\n\nسيتم تصحيحها وإعلامك بالنتيجة."
	msgSubmitLate       = "⌛ عذراً، انتهى الموعد النهائي لهذا الواجب."
	msgYourGrade        = "📊 درجتك: %d/%d"
	msgNotGradedYet     = "⏳ لم يتم تصحيح إجابتك بعد."

	msgHelp = "ℹ️ المساعدة\n\n📚 الدورات: تصفح الدورات المتاحة وسجل فيها\n📖 المواد: تصفح المواد الجامعية حسب السنة والفصل\n📝 واجباتي: عرض الواجبات وتسليم الإجابات\n\nللاستفسار تواصل مع الإدارة."

	msgNotRegistered = "يرجى التسجيل أولاً. أرسل /start للبدء."
	msgUnknown       = "لم أفهم طلبك. اختر من القائمة أو أرسل /start."

	msgAdminOnly       = "هذا الأمر للإدارة فقط."
	msgNoPending       = "لا توجد طلبات معلقة. ✅"
	msgDecisionDone    = "تم تنفيذ القرار. ✅"
	msgDecisionGone    = "هذا الطلب لم يعد معلقاً."
	msgAskGrade        = "أرسل الدرجة، وبعدها الملاحظات بشكل اختياري بعد |\nمثال: 85 | عمل ممتاز"
	msgBadGrade        = "⚠️ الدرجة غير صالحة."
	msgGraded          = "تم تسجيل الدرجة وإعلام الطالب. ✅"
	msgAskBroadcast    = "أرسل عنوان الإشعار:"
	msgAskBroadcastMsg = "الآن أرسل نص الإشعار:"
	msgBroadcastSent   = "تم إرسال الإشعار إلى %d مستخدم. ✅"
)

// Main menu labels (reply keyboard).
const (
	btnCourses     = "📚 الدورات"
	btnMaterials   = "📖 المواد الجامعية"
	btnAssignments = "📝 واجباتي"
	btnHelp        = "ℹ️ مساعدة"
	btnPending     = "📋 الطلبات المعلقة"
	btnBroadcast   = "📢 إشعار جماعي"
)
