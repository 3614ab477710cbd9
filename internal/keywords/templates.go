package keywords

// Template keys
const (
	TemplateDataEngineer     = "data_engineer"
	TemplateMLEngineer       = "machine_learning_engineer"
	TemplateSoftwareEngineer = "software_engineer"
	TemplateGeneric          = "generic"
)

// Technology domains used for compatibility checks
const (
	DomainGeneral = "general"
	DomainData    = "data"
	DomainML      = "ml"
	DomainCloud   = "cloud"
	DomainWeb     = "web"
)

type term struct {
	name   string
	domain string
}

type roleTemplate struct {
	key         string
	displayName string
	primary     []term
	secondary   []term
}

var templates = map[string]roleTemplate{
	TemplateDataEngineer: {
		key:         TemplateDataEngineer,
		displayName: "Data Engineer",
		primary: []term{
			{"Spark", DomainData}, {"Kafka", DomainData}, {"Airflow", DomainData},
			{"dbt", DomainData}, {"Redshift", DomainData}, {"Snowflake", DomainData},
		},
		secondary: []term{
			{"AI", DomainML}, {"ML", DomainML}, {"LLM", DomainML}, {"GenAI", DomainML},
			{"RAG", DomainML}, {"Vector Database", DomainML}, {"Real-time", DomainData},
			{"Streaming", DomainData}, {"Event-driven", DomainGeneral}, {"Cloud-native", DomainCloud},
			{"AWS", DomainCloud}, {"Azure", DomainCloud}, {"GCP", DomainCloud},
			{"Kubernetes", DomainCloud}, {"Docker", DomainCloud}, {"Terraform", DomainCloud},
		},
	},
	TemplateMLEngineer: {
		key:         TemplateMLEngineer,
		displayName: "Machine Learning Engineer",
		primary: []term{
			{"PyTorch", DomainML}, {"TensorFlow", DomainML}, {"Scikit-learn", DomainML},
			{"MLflow", DomainML}, {"Kubeflow", DomainML}, {"Python", DomainGeneral},
		},
		secondary: []term{
			{"LLM", DomainML}, {"GenAI", DomainML}, {"Transformers", DomainML},
			{"RAG", DomainML}, {"Fine-tuning", DomainML}, {"MLOps", DomainML},
			{"AWS SageMaker", DomainCloud}, {"Azure ML", DomainCloud}, {"GCP Vertex AI", DomainCloud},
		},
	},
	TemplateSoftwareEngineer: {
		key:         TemplateSoftwareEngineer,
		displayName: "Software Engineer",
		primary: []term{
			{"Python", DomainGeneral}, {"Java", DomainGeneral}, {"React", DomainWeb},
			{"Node.js", DomainWeb}, {"GraphQL", DomainWeb}, {"REST APIs", DomainWeb},
		},
		secondary: []term{
			{"AI", DomainML}, {"ML", DomainML}, {"Microservices", DomainGeneral},
			{"Cloud-native", DomainCloud}, {"DevOps", DomainCloud}, {"CI/CD", DomainCloud},
			{"AWS", DomainCloud}, {"Kubernetes", DomainCloud}, {"Docker", DomainCloud},
			{"Serverless", DomainCloud},
		},
	},
	TemplateGeneric: {
		key:         TemplateGeneric,
		displayName: "Software Professional",
		primary: []term{
			{"Python", DomainGeneral}, {"SQL", DomainGeneral}, {"Git", DomainGeneral}, {"Linux", DomainGeneral},
		},
		secondary: []term{
			{"AWS", DomainCloud}, {"Docker", DomainCloud}, {"CI/CD", DomainCloud},
			{"REST APIs", DomainWeb}, {"Agile", DomainGeneral}, {"Automated Testing", DomainGeneral},
		},
	},
}

// technologies maps lowercase technology names to their canonical name and domain.
// It drives experience-context detection and job-description enrichment.
var technologies = map[string]term{
	"spark": {"Spark", DomainData}, "pyspark": {"PySpark", DomainData}, "kafka": {"Kafka", DomainData},
	"airflow": {"Airflow", DomainData}, "dbt": {"dbt", DomainData}, "redshift": {"Redshift", DomainData},
	"snowflake": {"Snowflake", DomainData}, "bigquery": {"BigQuery", DomainData}, "hadoop": {"Hadoop", DomainData},
	"hive": {"Hive", DomainData}, "flink": {"Flink", DomainData}, "kinesis": {"Kinesis", DomainData},
	"databricks": {"Databricks", DomainData}, "etl": {"ETL", DomainData}, "postgresql": {"PostgreSQL", DomainData},
	"mysql": {"MySQL", DomainData}, "mongodb": {"MongoDB", DomainData}, "pandas": {"Pandas", DomainData},
	"streaming": {"Streaming", DomainData}, "real-time": {"Real-time", DomainData}, "sql": {"SQL", DomainGeneral},

	"pytorch": {"PyTorch", DomainML}, "tensorflow": {"TensorFlow", DomainML}, "scikit-learn": {"Scikit-learn", DomainML},
	"mlflow": {"MLflow", DomainML}, "kubeflow": {"Kubeflow", DomainML}, "llm": {"LLM", DomainML},
	"genai": {"GenAI", DomainML}, "rag": {"RAG", DomainML}, "transformers": {"Transformers", DomainML},
	"mlops": {"MLOps", DomainML}, "pinecone": {"Pinecone", DomainML}, "weaviate": {"Weaviate", DomainML},
	"vector database": {"Vector Database", DomainML}, "machine learning": {"Machine Learning", DomainML},

	"aws": {"AWS", DomainCloud}, "azure": {"Azure", DomainCloud}, "gcp": {"GCP", DomainCloud},
	"kubernetes": {"Kubernetes", DomainCloud}, "docker": {"Docker", DomainCloud}, "terraform": {"Terraform", DomainCloud},
	"cloudformation": {"CloudFormation", DomainCloud}, "aws lambda": {"AWS Lambda", DomainCloud},
	"serverless": {"Serverless", DomainCloud}, "ci/cd": {"CI/CD", DomainCloud}, "devops": {"DevOps", DomainCloud},
	"sagemaker": {"AWS SageMaker", DomainCloud},

	"react": {"React", DomainWeb}, "node.js": {"Node.js", DomainWeb}, "graphql": {"GraphQL", DomainWeb},
	"typescript": {"TypeScript", DomainWeb}, "javascript": {"JavaScript", DomainWeb}, "rest apis": {"REST APIs", DomainWeb},
	"vue": {"Vue", DomainWeb}, "angular": {"Angular", DomainWeb},

	"python": {"Python", DomainGeneral}, "java": {"Java", DomainGeneral}, "golang": {"Go", DomainGeneral},
	"scala": {"Scala", DomainGeneral}, "microservices": {"Microservices", DomainGeneral},
	"git": {"Git", DomainGeneral}, "linux": {"Linux", DomainGeneral},
}

// related lists domains that share enough context for keyword weaving
var related = map[string][]string{
	DomainData: {DomainML},
	DomainML:   {DomainData},
}
