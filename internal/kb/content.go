package kb

// SystemPrompt is the base instruction for knowledge-grounded answers.
const SystemPrompt = `You are an AI assistant for InstaLogic, a technology solutions company specializing in data analytics, business intelligence, and e-governance solutions.

Your role is to:
1. Answer questions about InstaLogic's services, case studies, and capabilities
2. Help users book demos, request PoCs, and connect with sales
3. Guide users to the right resources and contact points
4. Be professional, helpful, and concise
5. If you don't know something, admit it and offer to connect them with a human

Use the knowledge base provided to answer questions accurately. When users want to take action (book demo, request quote, etc.), collect their information and confirm the request.

Always be friendly and professional. Keep responses concise but informative.

If a user asks something urgent or complex that requires human intervention, offer to escalate to the appropriate team (sales, technical support, proposals team, etc.).`

// seedDocument is one self-contained section of the company knowledge base.
type seedDocument struct {
	ID      string
	Content string
}

// seedCorpus is the company knowledge base, split into retrievable sections.
var seedCorpus = []seedDocument{
	{
		ID: "about-company",
		Content: `About InstaLogic. InstaLogic is a technology solutions company specializing in data analytics, business intelligence, software development, and e-governance solutions. We help organizations unlock insights, drive growth, and optimize performance through comprehensive tech solutions. Mission: Empowering Transformation through innovative technology solutions that deliver real business value.`,
	},
	{
		ID: "services-analytics-bi",
		Content: `Services: Data Analytics and Business Intelligence. Visual Analytics Dashboards. Power BI, Qlik, and Tableau implementations. Data integration from multiple sources (Postgres, MySQL, Excel). Live data connections. Custom reporting and KPI tracking. Business Intelligence Support and Advisory: BI strategy consulting, dashboard optimization, data governance, performance analytics, decision support systems.`,
	},
	{
		ID: "services-financial",
		Content: `Services: Financial Impact Support and Advisory. Financial Impact Assessments, cost-benefit analysis, ROI calculations, budget planning and forecasting.`,
	},
	{
		ID: "services-software",
		Content: `Services: Software Development. Custom application development, web and mobile applications, API development and integration, payment gateway integration, bulk upload systems.`,
	},
	{
		ID: "services-training",
		Content: `Services: Training and Skilling Programs. BI tools training (Power BI, Tableau, Qlik), data analytics workshops, technical certification programs, user training for dashboards, staff upskilling initiatives.`,
	},
	{
		ID: "services-egovernance",
		Content: `Services: E-Governance Solutions. Government portal development, citizen services platforms, digital governance systems, compliance and reporting tools. Business Process Reengineering (BPR): process optimization, workflow automation, efficiency improvement, digital transformation.`,
	},
	{
		ID: "case-studies",
		Content: `Case studies and past project work. Visual Analytics Dashboard for MBOCWWB (Maharashtra Building and Other Construction Workers Welfare Board): comprehensive dashboard for construction worker welfare tracking, real-time monitoring of registrations and benefits, multi-level reporting at state, district, and taluka levels. Cess Collection Portal: automated cess collection system, payment gateway integration, bulk upload capabilities, financial tracking and reporting. Financial Impact Assessment for Mahajyoti and OBBW: detailed financial analysis, impact measurement, ROI assessment, strategic recommendations.`,
	},
	{
		ID: "technical-capabilities",
		Content: `Technical capabilities. BI tools: Power BI, Qlik Sense and QlikView, Tableau, custom dashboards. Programming languages and frameworks: Python (FastAPI, Django, Flask), JavaScript and TypeScript (React, Node.js), Java, .NET. Databases: PostgreSQL, MySQL, SQL Server, MongoDB, Oracle. Cloud and DevOps: AWS, Azure, Docker and Kubernetes, CI/CD pipelines, DevOps automation. Data security: end-to-end encryption, role-based access control (RBAC), GDPR and CCPA compliance, data privacy protection, secure API development.`,
	},
	{
		ID: "engagement-process",
		Content: `Engagement models: Fixed Price Projects with well-defined scope, fixed timeline and cost, milestone-based payments. Time and Material (T&M) with flexible scope and hourly or daily rates, suitable for evolving requirements. Dedicated Team for long-term engagement with dedicated full-time resources. Project process: initial consultation, proposal and scoping, agreement and kickoff, development and iterations, testing and QA, deployment with training, support and maintenance.`,
	},
	{
		ID: "support-sla",
		Content: `Support and SLA. Technical support available by email and phone. Response times based on priority: Critical 2 hours, High 4 hours, Medium 8 hours, Low 24 hours. Post-deployment maintenance available. Training and documentation provided.`,
	},
	{
		ID: "pricing",
		Content: `Pricing. Custom quotes based on project scope. Competitive pricing for government projects. Discounts available for long-term contracts. Free initial consultation. PoC and demo options available.`,
	},
	{
		ID: "contact-info",
		Content: `Contact information and how to get in touch. Request a demo through the contact form, schedule a sales call. Email: info@instalogic.com. Technical support: support@instalogic.com. Career inquiries: careers@instalogic.com.`,
	},
	{
		ID: "certifications",
		Content: `Certifications and compliance. ISO certified, CMMI compliant, GDPR compliant, government approved vendor, NDA signing available.`,
	},
	{
		ID: "demos-poc",
		Content: `Demos and Proof of Concept. PoC duration 2 to 4 weeks, includes a sample dashboard with client data, cost discussed based on scope, sandbox environment available. Demo requests: live dashboard demonstrations, industry-specific examples, customized presentations, free consultation included.`,
	},
	{
		ID: "careers",
		Content: `Careers and hiring. Open positions on the careers page. Hiring for Data Analysts, BI Developers, and Software Engineers. Work culture: flexible, WFH options available. Resume submission through the website. Growth and learning opportunities.`,
	},
	{
		ID: "rfp-tender",
		Content: `RFP and tender process. Pre-bid clarifications provided. Government tender experience. Proposal writing support. Technical and commercial proposals. NDA and legal compliance.`,
	},
	{
		ID: "custom-solutions",
		Content: `Custom solutions. AR/VR visualization, GIS and drone imagery projects, custom integrations, specialized industry solutions, innovation and R&D support.`,
	},
}
